package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
)

// PreferencesStore persists UI preferences per user. Get returns the
// defaults for unknown users.
type PreferencesStore interface {
	Get(ctx context.Context, userID string) (models.UIPreferences, error)
	Save(ctx context.Context, userID string, prefs models.UIPreferences) error
}

type PreferencesService interface {
	Get(ctx context.Context, userID string) (models.UIPreferences, error)
	Update(ctx context.Context, userID string, prefs models.UIPreferences) (models.UIPreferences, error)
}

type preferencesService struct {
	store     PreferencesStore
	validator *validator.Validator
}

func NewPreferencesService(store PreferencesStore, validator *validator.Validator) PreferencesService {
	return &preferencesService{
		store:     store,
		validator: validator,
	}
}

func (s *preferencesService) Get(ctx context.Context, userID string) (models.UIPreferences, error) {
	prefs, err := s.store.Get(ctx, userID)
	if err != nil {
		return models.UIPreferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

func (s *preferencesService) Update(ctx context.Context, userID string, prefs models.UIPreferences) (models.UIPreferences, error) {
	if err := s.validator.Validate(prefs); err != nil {
		return models.UIPreferences{}, err
	}
	if err := s.store.Save(ctx, userID, prefs); err != nil {
		return models.UIPreferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

// MemoryPreferencesStore is used when redis is not configured.
type MemoryPreferencesStore struct {
	mu    sync.RWMutex
	prefs map[string]models.UIPreferences
}

func NewMemoryPreferencesStore() *MemoryPreferencesStore {
	return &MemoryPreferencesStore{prefs: make(map[string]models.UIPreferences)}
}

func (m *MemoryPreferencesStore) Get(ctx context.Context, userID string) (models.UIPreferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if prefs, ok := m.prefs[userID]; ok {
		return prefs, nil
	}
	return models.DefaultUIPreferences(), nil
}

func (m *MemoryPreferencesStore) Save(ctx context.Context, userID string, prefs models.UIPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefs[userID] = prefs
	return nil
}
