package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) LoadAll(ctx context.Context) (map[string]models.SavedSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.SavedSession), args.Error(1)
}

func (m *MockPersister) Put(ctx context.Context, examID string, snapshot models.SavedSession) error {
	args := m.Called(ctx, examID, snapshot)
	return args.Error(0)
}

func (m *MockPersister) Delete(ctx context.Context, examID string) error {
	args := m.Called(ctx, examID)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 5, 4, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(context.Background(), NewMemoryPersister(), testLogger(), WithClock(func() time.Time { return fixedNow }))
}

func testExam() (models.Exam, []models.Question) {
	exam := models.Exam{ID: "exam-1", Title: "Geography", Duration: 30, TotalPoints: 30, PassingScore: 15}
	questions := make([]models.Question, 3)
	for i := range questions {
		questions[i] = models.Question{
			ID:      []string{"q1", "q2", "q3"}[i],
			Type:    models.SingleChoice,
			Points:  10,
			Payload: models.ChoicePayload{Options: []string{"a", "b"}, CorrectAnswer: 0},
		}
	}
	return exam, questions
}

func TestStartExam_Fresh(t *testing.T) {
	store := newTestStore(t)
	exam, questions := testExam()

	assert.Equal(t, StatusNotStarted, store.Status())
	resumed := store.StartExam(exam, questions, 30)
	assert.False(t, resumed)

	view := store.Snapshot()
	assert.Equal(t, StatusInProgress, view.Status)
	assert.Equal(t, 0, view.CurrentIndex)
	assert.Empty(t, view.Answers)
	require.NotNil(t, view.TimeRemaining)
	assert.Equal(t, 1800, *view.TimeRemaining)
	require.NotNil(t, view.StartTime)
	assert.Equal(t, fixedNow, *view.StartTime)
}

func TestSaveAnswer_UpsertKeepsOrder(t *testing.T) {
	store := newTestStore(t)
	exam, questions := testExam()
	store.StartExam(exam, questions, 30)

	first := models.UserAnswer{QuestionID: "q1", Answer: models.IndexAnswer(1), TimeSpent: 4}
	store.SaveAnswer(first)
	store.SaveAnswer(models.UserAnswer{QuestionID: "q2", Answer: models.IndexAnswer(0)})
	store.SaveAnswer(first)
	assert.Len(t, store.Answers(), 2)

	store.SaveAnswer(models.UserAnswer{QuestionID: "q1", Answer: models.IndexAnswer(0), TimeSpent: 9})
	answers := store.Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, "q1", answers[0].QuestionID)
	assert.Equal(t, models.IndexAnswer(0), answers[0].Answer)
	assert.Equal(t, 9, answers[0].TimeSpent)
	assert.Equal(t, "q2", answers[1].QuestionID)
	assert.Equal(t, 0, store.CurrentIndex())
}

func TestSaveAnswer_IgnoredWithoutSession(t *testing.T) {
	store := newTestStore(t)
	store.SaveAnswer(models.UserAnswer{QuestionID: "q1", Answer: models.IndexAnswer(0)})
	assert.Empty(t, store.Answers())
}

func TestNavigation_Clamps(t *testing.T) {
	store := newTestStore(t)

	store.SetCurrentQuestionIndex(5)
	store.NextQuestion()
	assert.Equal(t, 0, store.CurrentIndex())

	exam, questions := testExam()
	store.StartExam(exam, questions, 30)

	store.PreviousQuestion()
	assert.Equal(t, 0, store.CurrentIndex())

	store.NextQuestion()
	store.NextQuestion()
	store.NextQuestion()
	assert.Equal(t, 2, store.CurrentIndex())

	store.SetCurrentQuestionIndex(-3)
	assert.Equal(t, 0, store.CurrentIndex())
	store.SetCurrentQuestionIndex(42)
	assert.Equal(t, 2, store.CurrentIndex())
	store.SetCurrentQuestionIndex(1)
	assert.Equal(t, 1, store.CurrentIndex())

	q, ok := store.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "q2", q.ID)
}

func TestResumeLaw(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	exam, questions := testExam()
	store.StartExam(exam, questions, 30)
	store.SaveAnswer(models.UserAnswer{QuestionID: "q1", Answer: models.IndexAnswer(1), TimeSpent: 5})
	store.SetCurrentQuestionIndex(2)
	store.UpdateTimeRemaining(1234)

	require.True(t, store.SaveExamForLater(ctx))
	assert.True(t, store.HasSavedExam(exam.ID))

	saved, ok := store.LoadSavedExam(exam.ID)
	require.True(t, ok)
	assert.Equal(t, 2, saved.CurrentQuestionIndex)
	assert.Equal(t, 1234, saved.TimeRemaining)
	assert.Equal(t, store.Answers(), saved.UserAnswers)

	store.ResetExam()
	assert.True(t, store.HasSavedExam(exam.ID), "reset keeps saved snapshots")
	_, running := store.TimeRemaining()
	assert.False(t, running)

	assert.True(t, store.StartExam(exam, questions, 30))
	assert.Equal(t, 2, store.CurrentIndex())
	remaining, _ := store.TimeRemaining()
	assert.Equal(t, 1234, remaining)
	assert.Len(t, store.Answers(), 1)

	store.ClearSavedExam(ctx, exam.ID)
	store.ClearSavedExam(ctx, exam.ID)
	assert.False(t, store.HasSavedExam(exam.ID))
}

func TestSaveExamForLater_Overwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	exam, questions := testExam()
	store.StartExam(exam, questions, 30)

	store.UpdateTimeRemaining(100)
	store.SaveExamForLater(ctx)
	store.UpdateTimeRemaining(50)
	store.SaveExamForLater(ctx)

	assert.Len(t, store.SavedExams(), 1)
	saved, _ := store.LoadSavedExam(exam.ID)
	assert.Equal(t, 50, saved.TimeRemaining)
}

func TestSaveExamForLater_RequiresActiveClock(t *testing.T) {
	store := newTestStore(t)
	assert.False(t, store.SaveExamForLater(context.Background()))
	assert.Empty(t, store.SavedExams())
}

func TestComplete(t *testing.T) {
	store := newTestStore(t)
	exam, questions := testExam()
	store.StartExam(exam, questions, 30)

	store.Complete()
	view := store.Snapshot()
	assert.Equal(t, StatusSubmitted, view.Status)
	assert.Nil(t, view.Exam)
	assert.Nil(t, view.TimeRemaining)
}

func TestStore_LoadsAndWritesThroughPersister(t *testing.T) {
	ctx := context.Background()
	exam, questions := testExam()
	existing := models.SavedSession{Exam: exam, Questions: questions, CurrentQuestionIndex: 1, TimeRemaining: 90, StartTime: fixedNow}

	persister := new(MockPersister)
	persister.On("LoadAll", ctx).Return(map[string]models.SavedSession{exam.ID: existing}, nil)
	persister.On("Put", ctx, exam.ID, mock.AnythingOfType("models.SavedSession")).Return(nil)
	persister.On("Delete", ctx, exam.ID).Return(nil)

	store := NewStore(ctx, persister, testLogger())
	assert.True(t, store.HasSavedExam(exam.ID))

	assert.True(t, store.StartExam(exam, questions, 30))
	assert.Equal(t, 1, store.CurrentIndex())
	store.SaveExamForLater(ctx)
	store.ClearSavedExam(ctx, exam.ID)

	persister.AssertExpectations(t)
	persister.AssertNumberOfCalls(t, "Delete", 1)
}

func TestStore_PersisterFailuresKeepMemoryState(t *testing.T) {
	ctx := context.Background()
	persister := new(MockPersister)
	persister.On("LoadAll", ctx).Return(nil, errors.New("redis unavailable"))
	persister.On("Put", ctx, "exam-1", mock.Anything).Return(errors.New("write failed"))

	store := NewStore(ctx, persister, testLogger())
	exam, questions := testExam()
	store.StartExam(exam, questions, 30)

	assert.True(t, store.SaveExamForLater(ctx))
	assert.True(t, store.HasSavedExam("exam-1"))
}
