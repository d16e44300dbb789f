package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/scoring"
	"github.com/SAP-F-2025/exam-session-service/internal/session"
	"github.com/SAP-F-2025/exam-session-service/internal/timer"
)

// Phase is where a controller stands in the take-exam protocol.
type Phase string

const (
	PhaseIdle                   Phase = "idle"
	PhaseAwaitingResumeDecision Phase = "awaiting_resume_decision"
	PhaseInProgress             Phase = "in_progress"
	PhaseSubmitted              Phase = "submitted"
)

// EndReason records why an attempt was submitted.
type EndReason string

const (
	EndReasonSubmitted   EndReason = "submitted"
	EndReasonTimeExpired EndReason = "time_expired"
)

// EnterOutcome tells the caller what Enter did.
type EnterOutcome string

const (
	EnterStarted         EnterOutcome = "started"
	EnterResumeAvailable EnterOutcome = "resume_available"
	EnterInProgress      EnterOutcome = "in_progress"
)

// SessionView is what the session page renders.
type SessionView struct {
	Phase           Phase                `json:"phase"`
	UserID          string               `json:"userId"`
	Session         session.Session      `json:"session"`
	CurrentQuestion *models.Question     `json:"currentQuestion,omitempty"`
	HeldAnswer      models.AnswerValue   `json:"heldAnswer,omitempty"`
	TimerDisplay    string               `json:"timerDisplay"`
	TimerWarning    bool                 `json:"timerWarning"`
	PendingExam     *models.Exam         `json:"pendingExam,omitempty"`
	SavedSession    *models.SavedSession `json:"savedSession,omitempty"`
	LastResult      *models.ExamResult   `json:"lastResult,omitempty"`
	EndReason       EndReason            `json:"endReason,omitempty"`
}

type ControllerConfig struct {
	UserID        string
	TimerInterval time.Duration
	TickerFactory timer.TickerFactory
	Now           func() time.Time
}

// SessionController drives one user's exam attempt: the resume decision,
// answer commits, navigation, the countdown and the final submission.
type SessionController struct {
	userID    string
	exams     repositories.ExamRepository
	results   repositories.ResultRepository
	publisher events.EventPublisher
	store     *session.Store
	timer     *timer.Controller
	logger    *slog.Logger
	now       func() time.Time

	// baseCtx outlives requests; the countdown and auto-submit run on it.
	baseCtx context.Context

	mu               sync.Mutex
	phase            Phase
	pendingExam      *models.Exam
	pendingQuestions []models.Question
	held             models.AnswerValue
	shownAt          time.Time
	lastResult       *models.ExamResult
	endReason        EndReason
}

func NewSessionController(
	baseCtx context.Context,
	store *session.Store,
	exams repositories.ExamRepository,
	results repositories.ResultRepository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	cfg ControllerConfig,
) *SessionController {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &SessionController{
		userID:    cfg.UserID,
		exams:     exams,
		results:   results,
		publisher: publisher,
		store:     store,
		logger:    logger.With("user_id", cfg.UserID),
		now:       cfg.Now,
		baseCtx:   baseCtx,
		phase:     PhaseIdle,
	}

	opts := []timer.Option{timer.WithLogger(c.logger), timer.WithInterval(cfg.TimerInterval)}
	if cfg.TickerFactory != nil {
		opts = append(opts, timer.WithTickerFactory(cfg.TickerFactory))
	}
	c.timer = timer.NewController(store, c.onTimeExpired, opts...)
	return c
}

func (c *SessionController) UserID() string {
	return c.userID
}

// Timer exposes the countdown for tick subscriptions.
func (c *SessionController) Timer() *timer.Controller {
	return c.timer
}

// Enter loads the exam and either starts it or, when a saved session
// exists, waits for Resume or StartFresh. Entering the exam that is already
// in progress changes nothing; entering another one interrupts the current
// attempt first.
func (c *SessionController) Enter(ctx context.Context, examID string) (EnterOutcome, error) {
	exam, questions, err := c.loadExam(ctx, examID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.phase == PhaseInProgress {
		if current := c.store.Snapshot(); current.Exam != nil && current.Exam.ID == examID {
			c.mu.Unlock()
			return EnterInProgress, nil
		}
		c.interruptLocked(ctx)
	}

	if c.store.HasSavedExam(examID) {
		c.phase = PhaseAwaitingResumeDecision
		c.pendingExam = exam
		c.pendingQuestions = questions
		c.mu.Unlock()

		c.logger.InfoContext(ctx, "Saved session found, waiting for resume decision", "exam_id", examID)
		return EnterResumeAvailable, nil
	}

	c.beginLocked(*exam, questions)
	c.mu.Unlock()

	c.publish(ctx, events.EventSessionStarted, examID, c.startedPayload(len(questions)))
	c.timer.Start(c.baseCtx)
	return EnterStarted, nil
}

// Resume restores the saved session of examID exactly as it was left.
// examID must be the exam waiting for a resume decision.
func (c *SessionController) Resume(ctx context.Context, examID string) error {
	c.mu.Lock()
	if !c.awaitingDecisionLocked(examID) {
		c.mu.Unlock()
		return ErrNoResumeDecision
	}
	exam, questions := *c.pendingExam, c.pendingQuestions
	c.beginLocked(exam, questions)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "Resumed saved session", "exam_id", exam.ID)
	c.publish(ctx, events.EventSessionResumed, exam.ID, c.startedPayload(len(questions)))
	c.timer.Start(c.baseCtx)
	return nil
}

// StartFresh discards the saved session of examID and starts over with the
// full duration.
func (c *SessionController) StartFresh(ctx context.Context, examID string) error {
	c.mu.Lock()
	if !c.awaitingDecisionLocked(examID) {
		c.mu.Unlock()
		return ErrNoResumeDecision
	}
	exam, questions := *c.pendingExam, c.pendingQuestions
	c.store.ClearSavedExam(ctx, exam.ID)
	c.beginLocked(exam, questions)
	c.mu.Unlock()

	c.publish(ctx, events.EventSessionDiscarded, exam.ID, nil)
	c.publish(ctx, events.EventSessionStarted, exam.ID, c.startedPayload(len(questions)))
	c.timer.Start(c.baseCtx)
	return nil
}

func (c *SessionController) awaitingDecisionLocked(examID string) bool {
	return c.phase == PhaseAwaitingResumeDecision && c.pendingExam != nil && c.pendingExam.ID == examID
}

func (c *SessionController) loadExam(ctx context.Context, examID string) (*models.Exam, []models.Question, error) {
	exam, err := c.exams.FetchExam(ctx, examID)
	if err != nil {
		return nil, nil, mapRepositoryError(err, ErrExamNotFound, "fetch exam")
	}
	questions, err := c.exams.FetchExamQuestions(ctx, examID)
	if err != nil {
		return nil, nil, mapRepositoryError(err, ErrExamNotFound, "fetch exam questions")
	}
	if len(questions) == 0 {
		return nil, nil, ErrNoQuestions
	}
	return exam, questions, nil
}

func (c *SessionController) beginLocked(exam models.Exam, questions []models.Question) {
	c.store.StartExam(exam, questions, exam.Duration)
	c.phase = PhaseInProgress
	c.pendingExam = nil
	c.pendingQuestions = nil
	c.lastResult = nil
	c.endReason = ""
	c.loadHeldLocked()
}

func (c *SessionController) startedPayload(questionCount int) events.SessionStartedEvent {
	remaining, _ := c.store.TimeRemaining()
	return events.SessionStartedEvent{QuestionCount: questionCount, TimeRemaining: remaining}
}

// SetAnswer holds value for the current question until the next save point.
func (c *SessionController) SetAnswer(value models.AnswerValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		return ErrSessionNotActive
	}
	c.held = models.CloneAnswerValue(value)
	return nil
}

func (c *SessionController) CurrentAnswer() models.AnswerValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneAnswerValue(c.held)
}

// SaveAndNext commits the held answer and advances. On the last question
// the index stays put.
func (c *SessionController) SaveAndNext(ctx context.Context) error {
	return c.navigate(func() { c.store.NextQuestion() })
}

func (c *SessionController) Previous(ctx context.Context) error {
	return c.navigate(func() { c.store.PreviousQuestion() })
}

// GoTo commits the held answer and jumps to index, clamped into range.
func (c *SessionController) GoTo(ctx context.Context, index int) error {
	return c.navigate(func() { c.store.SetCurrentQuestionIndex(index) })
}

func (c *SessionController) navigate(move func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		return ErrSessionNotActive
	}
	c.commitLocked()
	move()
	c.loadHeldLocked()
	return nil
}

// commitLocked freezes the held value as the answer to the current question,
// stamping the time spent on it and its correctness at this moment.
func (c *SessionController) commitLocked() {
	if c.held == nil {
		return
	}
	q, ok := c.store.CurrentQuestion()
	if !ok {
		return
	}

	correct := scoring.IsCorrect(q, c.held)
	spent := int(c.now().Sub(c.shownAt) / time.Second)
	if spent < 0 {
		spent = 0
	}
	c.store.SaveAnswer(models.UserAnswer{
		QuestionID: q.ID,
		Answer:     c.held,
		TimeSpent:  spent,
		IsCorrect:  &correct,
	})
}

// loadHeldLocked resets the held value to the stored answer of the question
// now on screen and restarts its clock.
func (c *SessionController) loadHeldLocked() {
	c.held = nil
	c.shownAt = c.now()

	q, ok := c.store.CurrentQuestion()
	if !ok {
		return
	}
	if stored, ok := c.store.AnswerFor(q.ID); ok {
		c.held = stored.Answer
	}
}

// SaveForLater snapshots the attempt, stops the countdown and leaves the
// page. The snapshot keeps the remaining time.
func (c *SessionController) SaveForLater(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseInProgress {
		c.mu.Unlock()
		return ErrSessionNotActive
	}
	c.commitLocked()
	c.timer.Stop()
	view := c.store.Snapshot()
	if !c.store.SaveExamForLater(ctx) {
		c.mu.Unlock()
		return ErrNothingToSave
	}
	c.leaveLocked()
	c.mu.Unlock()

	remaining := 0
	if view.TimeRemaining != nil {
		remaining = *view.TimeRemaining
	}
	c.publish(ctx, events.EventSessionSaved, view.Exam.ID, events.SessionSavedEvent{
		CurrentIndex:  view.CurrentIndex,
		AnsweredCount: len(view.Answers),
		TimeRemaining: remaining,
	})
	return nil
}

// Interrupt handles the page being discarded. Progress is snapshotted only
// when at least one answer was committed. It reports whether a snapshot was
// taken.
func (c *SessionController) Interrupt(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		return false
	}
	return c.interruptLocked(ctx)
}

func (c *SessionController) interruptLocked(ctx context.Context) bool {
	c.commitLocked()
	c.timer.Stop()

	saved := false
	if len(c.store.Answers()) > 0 {
		saved = c.store.SaveExamForLater(ctx)
	}
	c.leaveLocked()

	c.logger.InfoContext(ctx, "Session interrupted", "saved", saved)
	return saved
}

func (c *SessionController) leaveLocked() {
	c.store.ResetExam()
	c.phase = PhaseIdle
	c.held = nil
}

// Submit grades the attempt and hands it to the result repository. A failed
// submission keeps the attempt intact so it can be retried.
func (c *SessionController) Submit(ctx context.Context) (*models.ExamResult, error) {
	return c.submit(ctx, EndReasonSubmitted)
}

func (c *SessionController) onTimeExpired() {
	_, err := c.submit(c.baseCtx, EndReasonTimeExpired)
	if err != nil && !errors.Is(err, ErrSessionNotActive) {
		c.logger.Error("Automatic submission failed", "error", err)
	}
}

func (c *SessionController) submit(ctx context.Context, reason EndReason) (*models.ExamResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseInProgress {
		return nil, ErrSessionNotActive
	}

	c.commitLocked()
	view := c.store.Snapshot()
	exam := *view.Exam
	grade := scoring.GradeAttempt(exam, view.Questions, view.Answers)

	remaining := 0
	if view.TimeRemaining != nil {
		remaining = *view.TimeRemaining
	}

	result := models.ExamResult{
		UserID:      c.userID,
		ExamID:      exam.ID,
		Score:       grade.Score,
		TotalPoints: grade.TotalPoints,
		Percentage:  grade.Percentage,
		Answers:     view.Answers,
		TimeSpent:   exam.Duration*60 - remaining,
		CompletedAt: c.now().UTC(),
		Passed:      grade.Passed,
	}

	if reason == EndReasonTimeExpired {
		c.publish(ctx, events.EventExamTimeExpired, exam.ID, nil)
	}

	submitted, err := c.results.SubmitExamResult(ctx, result)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to submit exam result",
			"exam_id", exam.ID,
			"reason", reason,
			"error", err)
		c.publish(ctx, events.EventSubmissionFailed, exam.ID, events.SubmissionFailedEvent{Reason: err.Error()})
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	c.store.ClearSavedExam(ctx, exam.ID)
	c.timer.Stop()
	c.store.Complete()
	c.phase = PhaseSubmitted
	c.held = nil
	c.lastResult = submitted
	c.endReason = reason

	c.logger.InfoContext(ctx, "Exam submitted",
		"exam_id", exam.ID,
		"result_id", submitted.ID,
		"score", submitted.Score,
		"total_points", submitted.TotalPoints,
		"reason", reason)

	c.publish(ctx, events.EventExamSubmitted, exam.ID, events.ExamSubmittedEvent{
		ResultID:    submitted.ID,
		Score:       submitted.Score,
		TotalPoints: submitted.TotalPoints,
		Percentage:  submitted.Percentage,
		Passed:      submitted.Passed,
		TimeSpent:   submitted.TimeSpent,
		CompletedAt: submitted.CompletedAt,
		AutoSubmit:  reason == EndReasonTimeExpired,
	})

	copied := *submitted
	return &copied, nil
}

// View renders the controller state for the session page.
func (c *SessionController) View() SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.store.Snapshot()
	remaining, _ := c.store.TimeRemaining()
	view := SessionView{
		Phase:        c.phase,
		UserID:       c.userID,
		Session:      snapshot,
		HeldAnswer:   models.CloneAnswerValue(c.held),
		TimerDisplay: c.timer.Display(),
		TimerWarning: c.phase == PhaseInProgress && timer.IsWarning(remaining),
		EndReason:    c.endReason,
	}
	if q, ok := c.store.CurrentQuestion(); ok {
		view.CurrentQuestion = &q
	}
	if c.pendingExam != nil {
		exam := *c.pendingExam
		view.PendingExam = &exam
		if saved, ok := c.store.LoadSavedExam(exam.ID); ok {
			view.SavedSession = &saved
		}
	}
	if c.lastResult != nil {
		result := *c.lastResult
		view.LastResult = &result
	}
	return view
}

// SavedExams lists the exams with a saved session for this user.
func (c *SessionController) SavedExams() []string {
	return c.store.SavedExams()
}

// Close stops the countdown without touching the attempt.
func (c *SessionController) Close() {
	c.timer.Stop()
}

func (c *SessionController) publish(ctx context.Context, eventType events.EventType, examID string, data interface{}) {
	if c.publisher == nil {
		return
	}
	event := events.NewSessionEvent(eventType, c.userID, examID, data)
	if err := c.publisher.PublishSessionEvent(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish session event",
			"event_type", eventType,
			"exam_id", examID,
			"error", err)
	}
}
