package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/timer"
	"github.com/stretchr/testify/mock"
)

type MockExamRepository struct {
	mock.Mock
}

func (m *MockExamRepository) FetchExam(ctx context.Context, id string) (*models.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Exam), args.Error(1)
}

func (m *MockExamRepository) FetchExamQuestions(ctx context.Context, examID string) ([]models.Question, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockExamRepository) ListExams(ctx context.Context, filters models.ExamFilters) ([]models.Exam, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Exam), args.Error(1)
}

func (m *MockExamRepository) SaveExam(ctx context.Context, exam *models.Exam, questions []models.Question) error {
	args := m.Called(ctx, exam, questions)
	return args.Error(0)
}

type MockResultRepository struct {
	mock.Mock
}

// SubmitExamResult accepts either a fixed result or a func deriving the
// stored result from the submitted one.
func (m *MockResultRepository) SubmitExamResult(ctx context.Context, result models.ExamResult) (*models.ExamResult, error) {
	args := m.Called(ctx, result)
	if fn, ok := args.Get(0).(func(models.ExamResult) *models.ExamResult); ok {
		return fn(result), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamResult), args.Error(1)
}

func (m *MockResultRepository) FetchResultByID(ctx context.Context, id string) (*models.ExamResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamResult), args.Error(1)
}

func (m *MockResultRepository) FetchUserResults(ctx context.Context, userID string, filters repositories.ResultFilters) ([]models.ExamResult, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExamResult), args.Error(1)
}

func (m *MockResultRepository) FetchExamResults(ctx context.Context, examID string) ([]models.ExamResult, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExamResult), args.Error(1)
}

// storeWithID mimics the server assigning an id on submit.
func storeWithID(id string) func(models.ExamResult) *models.ExamResult {
	return func(r models.ExamResult) *models.ExamResult {
		r.ID = id
		return &r
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// idleTicker never fires; tests drive the countdown through Tick.
type idleTicker struct {
	ch chan time.Time
}

func newIdleTicker(time.Duration) timer.Ticker {
	return &idleTicker{ch: make(chan time.Time)}
}

func (t *idleTicker) Chan() <-chan time.Time { return t.ch }
func (t *idleTicker) Stop()                  {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func singleChoice(id string, correct int) models.Question {
	return models.Question{
		ID:       id,
		Type:     models.SingleChoice,
		Text:     "Question " + id,
		Category: "general",
		Points:   10,
		Payload: models.ChoicePayload{
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: correct,
		},
	}
}
