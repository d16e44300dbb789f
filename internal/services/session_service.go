package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/session"
)

// PersisterFactory returns where a user's saved sessions live.
type PersisterFactory func(userID string) session.SnapshotPersister

// SessionService hands out one SessionController per user, creating it with
// its own store on first use.
type SessionService struct {
	baseCtx      context.Context
	exams        repositories.ExamRepository
	results      repositories.ResultRepository
	publisher    events.EventPublisher
	newPersister PersisterFactory
	logger       *slog.Logger
	config       ControllerConfig

	mu          sync.Mutex
	controllers map[string]*SessionController
}

func NewSessionService(
	baseCtx context.Context,
	exams repositories.ExamRepository,
	results repositories.ResultRepository,
	publisher events.EventPublisher,
	newPersister PersisterFactory,
	logger *slog.Logger,
	config ControllerConfig,
) *SessionService {
	if newPersister == nil {
		newPersister = func(string) session.SnapshotPersister { return session.NewMemoryPersister() }
	}
	return &SessionService{
		baseCtx:      baseCtx,
		exams:        exams,
		results:      results,
		publisher:    publisher,
		newPersister: newPersister,
		logger:       logger,
		config:       config,
		controllers:  make(map[string]*SessionController),
	}
}

// Controller returns the user's controller. Saved sessions are loaded from
// the persister when the controller is created.
func (s *SessionService) Controller(ctx context.Context, userID string) *SessionController {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[userID]; ok {
		return c
	}

	var storeOpts []session.Option
	if s.config.Now != nil {
		storeOpts = append(storeOpts, session.WithClock(s.config.Now))
	}
	store := session.NewStore(ctx, s.newPersister(userID), s.logger.With("user_id", userID), storeOpts...)

	cfg := s.config
	cfg.UserID = userID
	c := NewSessionController(s.baseCtx, store, s.exams, s.results, s.publisher, s.logger, cfg)
	s.controllers[userID] = c

	s.logger.Debug("Created session controller", "user_id", userID)
	return c
}

// Shutdown interrupts every live attempt so progress is snapshotted before
// the process exits.
func (s *SessionService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	controllers := make([]*SessionController, 0, len(s.controllers))
	for _, c := range s.controllers {
		controllers = append(controllers, c)
	}
	s.mu.Unlock()

	for _, c := range controllers {
		if c.Interrupt(ctx) {
			s.logger.Info("Saved session on shutdown", "user_id", c.UserID())
		}
		c.Close()
	}
}
