package scoring

import (
	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

type ScoreSummary struct {
	Score       int `json:"score"`
	TotalPoints int `json:"totalPoints"`
}

// Score sums the points of every question into TotalPoints and the points of
// correctly answered questions into Score. Correctness is re-evaluated rather
// than read from the stamped IsCorrect field.
func Score(questions []models.Question, answers []models.UserAnswer) ScoreSummary {
	byQuestion := indexAnswers(answers)

	var summary ScoreSummary
	for _, q := range questions {
		summary.TotalPoints += q.Points
		if a, ok := byQuestion[q.ID]; ok && IsCorrect(q, a.Answer) {
			summary.Score += q.Points
		}
	}
	return summary
}

// Percentage is 0 when total is 0.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// PassingThreshold converts the exam's passing score, which is denominated
// in raw points, into a percentage. An exam with no points has threshold 0.
func PassingThreshold(exam models.Exam) float64 {
	if exam.TotalPoints == 0 {
		return 0
	}
	return float64(exam.PassingScore) / float64(exam.TotalPoints) * 100
}

func Passed(percentage float64, exam models.Exam) bool {
	return percentage >= PassingThreshold(exam)
}

// Grade bundles Score, Percentage and Passed for one attempt.
type Grade struct {
	ScoreSummary
	Percentage float64
	Passed     bool
}

func GradeAttempt(exam models.Exam, questions []models.Question, answers []models.UserAnswer) Grade {
	summary := Score(questions, answers)
	pct := Percentage(summary.Score, summary.TotalPoints)
	return Grade{
		ScoreSummary: summary,
		Percentage:   pct,
		Passed:       Passed(pct, exam),
	}
}

func indexAnswers(answers []models.UserAnswer) map[string]models.UserAnswer {
	byQuestion := make(map[string]models.UserAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}
	return byQuestion
}
