package session

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// MemoryPersister keeps snapshots in process memory.
type MemoryPersister struct {
	mu        sync.Mutex
	snapshots map[string]models.SavedSession
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{snapshots: make(map[string]models.SavedSession)}
}

func (m *MemoryPersister) LoadAll(ctx context.Context) (map[string]models.SavedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]models.SavedSession, len(m.snapshots))
	for id, s := range m.snapshots {
		out[id] = s.Clone()
	}
	return out, nil
}

func (m *MemoryPersister) Put(ctx context.Context, examID string, snapshot models.SavedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[examID] = snapshot.Clone()
	return nil
}

func (m *MemoryPersister) Delete(ctx context.Context, examID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snapshots, examID)
	return nil
}
