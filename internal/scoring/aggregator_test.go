package scoring

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_NoAnswers(t *testing.T) {
	questions := []models.Question{singleChoice("q1", 0), singleChoice("q2", 1), singleChoice("q3", 2)}
	questions[1].Points = 5
	questions[2].Points = 7

	assert.Equal(t, ScoreSummary{Score: 0, TotalPoints: 22}, Score(questions, nil))
}

func TestGradeAttempt_TwoQuestionScenario(t *testing.T) {
	questions := []models.Question{singleChoice("q1", 0), singleChoice("q2", 1)}
	answers := []models.UserAnswer{
		{QuestionID: "q1", Answer: models.IndexAnswer(0)},
		{QuestionID: "q2", Answer: models.IndexAnswer(0)},
	}
	exam := models.Exam{ID: "e1", TotalPoints: 20, PassingScore: 10}

	grade := GradeAttempt(exam, questions, answers)
	assert.Equal(t, 10, grade.Score)
	assert.Equal(t, 20, grade.TotalPoints)
	assert.Equal(t, 50.0, grade.Percentage)
	assert.Equal(t, 50.0, PassingThreshold(exam))
	assert.True(t, grade.Passed)

	exam.PassingScore = 11
	assert.False(t, Passed(grade.Percentage, exam))
}

func TestScore_IgnoresStampedCorrectness(t *testing.T) {
	stamped := true
	questions := []models.Question{singleChoice("q1", 0)}
	answers := []models.UserAnswer{{QuestionID: "q1", Answer: models.IndexAnswer(3), IsCorrect: &stamped}}

	assert.Equal(t, 0, Score(questions, answers).Score)
}

func TestScore_UngradedKindsScoreZero(t *testing.T) {
	questions := []models.Question{
		{ID: "essay", Type: models.Essay, Points: 20, Payload: models.EssayPayload{}},
		{ID: "zones", Type: models.DragDrop, Points: 5, Payload: models.DragDropPayload{Items: []string{"a"}}},
	}
	answers := []models.UserAnswer{
		{QuestionID: "essay", Answer: models.TextAnswer("long text")},
		{QuestionID: "zones", Answer: models.ZoneAnswer{"z": {"a"}}},
	}

	assert.Equal(t, ScoreSummary{Score: 0, TotalPoints: 25}, Score(questions, answers))
}

func TestPercentage_ZeroTotal(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, PassingThreshold(models.Exam{PassingScore: 5}))
	assert.True(t, Passed(0, models.Exam{}))
}

func TestCategoryStats(t *testing.T) {
	questions := []models.Question{singleChoice("q1", 0), singleChoice("q2", 1), singleChoice("q3", 2)}
	questions[0].Category = "math"
	questions[1].Category = "history"
	questions[2].Category = "math"

	answers := []models.UserAnswer{
		{QuestionID: "q1", Answer: models.IndexAnswer(0), TimeSpent: 30},
		{QuestionID: "q2", Answer: models.IndexAnswer(0), TimeSpent: 12},
	}

	stats := CategoryStats(questions, answers)
	require.Len(t, stats, 2)

	assert.Equal(t, models.CategoryStats{
		Category:         "math",
		TotalQuestions:   2,
		CorrectAnswers:   1,
		Accuracy:         50,
		AverageTimeSpent: 15,
	}, stats[0])
	assert.Equal(t, models.CategoryStats{
		Category:         "history",
		TotalQuestions:   1,
		CorrectAnswers:   0,
		Accuracy:         0,
		AverageTimeSpent: 12,
	}, stats[1])

	assert.Empty(t, CategoryStats(nil, nil))
}

func TestSummarizeResults(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	results := []models.ExamResult{
		{ExamID: "e2", Percentage: 80, TimeSpent: 100, Passed: true, CompletedAt: now.Add(time.Hour)},
		{ExamID: "e1", Percentage: 40, TimeSpent: 50, Passed: false, CompletedAt: now},
	}

	summary := SummarizeResults(results)
	assert.Equal(t, 2, summary.TotalExams)
	assert.Equal(t, 60.0, summary.AverageScore)
	assert.Equal(t, 150, summary.TotalTimeSpent)
	assert.Equal(t, 1, summary.PassedExams)
	require.Len(t, summary.Progress, 2)
	assert.Equal(t, "e1", summary.Progress[0].ExamID)

	empty := SummarizeResults(nil)
	assert.Equal(t, 0.0, empty.AverageScore)
	assert.NotNil(t, empty.Progress)
}

func TestBuildExamHistory(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	exams := []models.Exam{{ID: "e1", Title: "Algebra"}}
	results := []models.ExamResult{
		{ID: "r1", ExamID: "e1", Percentage: 40, CompletedAt: now},
		{ID: "r2", ExamID: "e2", Percentage: 90, CompletedAt: now.Add(time.Minute)},
		{ID: "r3", ExamID: "e1", Percentage: 70, CompletedAt: now.Add(2 * time.Minute)},
	}

	history := BuildExamHistory(exams, results)
	require.Len(t, history, 2)

	assert.Equal(t, "e1", history[0].ExamID)
	assert.Equal(t, "Algebra", history[0].ExamTitle)
	assert.Equal(t, 2, history[0].AttemptsCount)
	assert.Equal(t, 55.0, history[0].AverageScore)
	assert.Equal(t, 70.0, history[0].BestScore)
	assert.Equal(t, "r3", history[0].Results[0].ID)

	assert.Equal(t, "e2", history[1].ExamTitle)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "45min", FormatDuration(45))
	assert.Equal(t, "1h 30min", FormatDuration(90))
	assert.Equal(t, "2h", FormatDuration(120))

	assert.Equal(t, "9s", FormatTimeSpent(9))
	assert.Equal(t, "2m 5s", FormatTimeSpent(125))
	assert.Equal(t, "1h 2m 3s", FormatTimeSpent(3723))
	assert.Equal(t, "0s", FormatTimeSpent(-4))
}
