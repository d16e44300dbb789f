// Package session holds the live state of one user's exam attempt together
// with the saved snapshots of interrupted attempts.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

// SnapshotPersister is the durable side of the saved-session map. The store
// loads it once at construction and writes through on every change.
type SnapshotPersister interface {
	LoadAll(ctx context.Context) (map[string]models.SavedSession, error)
	Put(ctx context.Context, examID string, snapshot models.SavedSession) error
	Delete(ctx context.Context, examID string) error
}

// Session is a read-only copy of the live attempt.
type Session struct {
	Status        Status              `json:"status"`
	Exam          *models.Exam        `json:"exam,omitempty"`
	Questions     []models.Question   `json:"questions"`
	CurrentIndex  int                 `json:"currentIndex"`
	Answers       []models.UserAnswer `json:"answers"`
	StartTime     *time.Time          `json:"startTime,omitempty"`
	TimeRemaining *int                `json:"timeRemaining,omitempty"`
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	status        Status
	exam          *models.Exam
	questions     []models.Question
	currentIndex  int
	answers       []models.UserAnswer
	startTime     *time.Time
	timeRemaining *int

	saved     map[string]models.SavedSession
	persister SnapshotPersister
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now as the source of start timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store and loads previously saved snapshots. A failing
// persister is logged and the store starts with no saved sessions.
func NewStore(ctx context.Context, persister SnapshotPersister, logger *slog.Logger, opts ...Option) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		status:    StatusNotStarted,
		saved:     make(map[string]models.SavedSession),
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := persister.LoadAll(ctx)
	if err != nil {
		logger.Error("Failed to load saved sessions", "error", err)
		return s
	}
	for examID, snapshot := range loaded {
		s.saved[examID] = snapshot
	}
	logger.Debug("Loaded saved sessions", "count", len(loaded))
	return s
}

// StartExam begins an attempt. When a snapshot exists for the exam it is
// restored exactly and StartExam returns true; otherwise a fresh attempt
// starts with durationMinutes on the clock.
func (s *Store) StartExam(exam models.Exam, questions []models.Question, durationMinutes int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot, ok := s.saved[exam.ID]; ok {
		snapshot = snapshot.Clone()
		restoredExam := snapshot.Exam
		startTime := snapshot.StartTime
		remaining := snapshot.TimeRemaining

		s.exam = &restoredExam
		s.questions = snapshot.Questions
		s.currentIndex = clampIndex(snapshot.CurrentQuestionIndex, len(snapshot.Questions))
		s.answers = snapshot.UserAnswers
		s.startTime = &startTime
		s.timeRemaining = &remaining
		s.status = StatusInProgress
		return true
	}

	startTime := s.now()
	remaining := durationMinutes * 60

	s.exam = &exam
	s.questions = append([]models.Question(nil), questions...)
	s.currentIndex = 0
	s.answers = nil
	s.startTime = &startTime
	s.timeRemaining = &remaining
	s.status = StatusInProgress
	return false
}

func (s *Store) HasSavedExam(examID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.saved[examID]
	return ok
}

func (s *Store) LoadSavedExam(examID string) (models.SavedSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.saved[examID]
	if !ok {
		return models.SavedSession{}, false
	}
	return snapshot.Clone(), true
}

// SavedExams lists the ids of exams that have a saved snapshot, sorted.
func (s *Store) SavedExams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.saved))
	for id := range s.saved {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearSavedExam removes the snapshot for examID. Clearing a missing
// snapshot is a no-op.
func (s *Store) ClearSavedExam(ctx context.Context, examID string) {
	s.mu.Lock()
	_, existed := s.saved[examID]
	delete(s.saved, examID)
	s.mu.Unlock()

	if !existed {
		return
	}
	if err := s.persister.Delete(ctx, examID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete saved session", "exam_id", examID, "error", err)
	}
}

// SaveAnswer replaces any earlier answer to the same question in place and
// appends otherwise. It does not move the current index.
func (s *Store) SaveAnswer(answer models.UserAnswer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return
	}

	for i := range s.answers {
		if s.answers[i].QuestionID == answer.QuestionID {
			s.answers[i] = answer
			return
		}
	}
	s.answers = append(s.answers, answer)
}

func (s *Store) NextQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex < len(s.questions)-1 {
		s.currentIndex++
	}
}

func (s *Store) PreviousQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex > 0 {
		s.currentIndex--
	}
}

// SetCurrentQuestionIndex clamps index into the question range.
func (s *Store) SetCurrentQuestionIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return
	}
	s.currentIndex = clampIndex(index, len(s.questions))
}

// SaveExamForLater snapshots the live attempt, replacing any earlier
// snapshot of the same exam. It reports false and does nothing when the
// attempt has no start time or no remaining time.
func (s *Store) SaveExamForLater(ctx context.Context) bool {
	s.mu.Lock()
	if s.exam == nil || s.startTime == nil || s.timeRemaining == nil {
		s.mu.Unlock()
		return false
	}

	snapshot := models.SavedSession{
		Exam:                 *s.exam,
		Questions:            append([]models.Question(nil), s.questions...),
		CurrentQuestionIndex: s.currentIndex,
		UserAnswers:          models.CloneAnswers(s.answers),
		StartTime:            *s.startTime,
		TimeRemaining:        *s.timeRemaining,
	}
	examID := s.exam.ID
	s.saved[examID] = snapshot
	s.mu.Unlock()

	if err := s.persister.Put(ctx, examID, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist saved session", "exam_id", examID, "error", err)
	}
	return true
}

// UpdateTimeRemaining only records the value; expiry handling belongs to the
// timer.
func (s *Store) UpdateTimeRemaining(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timeRemaining = &seconds
}

// TimeRemaining reports false when no countdown is set.
func (s *Store) TimeRemaining() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.timeRemaining == nil {
		return 0, false
	}
	return *s.timeRemaining, true
}

// ResetExam returns the live attempt to NotStarted. Saved snapshots are kept.
func (s *Store) ResetExam() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.status = StatusNotStarted
}

// Complete ends the live attempt after a successful submission.
func (s *Store) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.status = StatusSubmitted
}

func (s *Store) reset() {
	s.exam = nil
	s.questions = nil
	s.currentIndex = 0
	s.answers = nil
	s.startTime = nil
	s.timeRemaining = nil
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentIndex
}

// CurrentQuestion returns false when no attempt is in progress.
func (s *Store) CurrentQuestion() (models.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentIndex < 0 || s.currentIndex >= len(s.questions) {
		return models.Question{}, false
	}
	return s.questions[s.currentIndex], true
}

func (s *Store) AnswerFor(questionID string) (models.UserAnswer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.answers {
		if a.QuestionID == questionID {
			return models.CloneAnswers([]models.UserAnswer{a})[0], true
		}
	}
	return models.UserAnswer{}, false
}

func (s *Store) Answers() []models.UserAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAnswers(s.answers)
}

func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := Session{
		Status:       s.status,
		Questions:    append([]models.Question(nil), s.questions...),
		CurrentIndex: s.currentIndex,
		Answers:      models.CloneAnswers(s.answers),
	}
	if s.exam != nil {
		exam := *s.exam
		view.Exam = &exam
	}
	if s.startTime != nil {
		start := *s.startTime
		view.StartTime = &start
	}
	if s.timeRemaining != nil {
		remaining := *s.timeRemaining
		view.TimeRemaining = &remaining
	}
	return view
}

func clampIndex(index, count int) int {
	if count == 0 || index < 0 {
		return 0
	}
	if index > count-1 {
		return count - 1
	}
	return index
}
