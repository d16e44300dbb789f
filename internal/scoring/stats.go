package scoring

import (
	"sort"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// CategoryStats groups questions by category in order of first appearance.
// AverageTimeSpent divides by every question in the category, answered or
// not.
func CategoryStats(questions []models.Question, answers []models.UserAnswer) []models.CategoryStats {
	byQuestion := indexAnswers(answers)

	var order []string
	groups := make(map[string]*models.CategoryStats)
	timeTotals := make(map[string]int)

	for _, q := range questions {
		stats, ok := groups[q.Category]
		if !ok {
			stats = &models.CategoryStats{Category: q.Category}
			groups[q.Category] = stats
			order = append(order, q.Category)
		}

		stats.TotalQuestions++
		if a, answered := byQuestion[q.ID]; answered {
			timeTotals[q.Category] += a.TimeSpent
			if IsCorrect(q, a.Answer) {
				stats.CorrectAnswers++
			}
		}
	}

	out := make([]models.CategoryStats, 0, len(order))
	for _, category := range order {
		stats := *groups[category]
		if stats.TotalQuestions > 0 {
			stats.Accuracy = float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100
			stats.AverageTimeSpent = float64(timeTotals[category]) / float64(stats.TotalQuestions)
		}
		out = append(out, stats)
	}
	return out
}

// SummarizeResults builds the statistics overview of a user's results.
func SummarizeResults(results []models.ExamResult) models.UserSummary {
	summary := models.UserSummary{
		TotalExams: len(results),
		Progress:   make([]models.ProgressPoint, 0, len(results)),
	}
	if len(results) == 0 {
		return summary
	}

	var percentageSum float64
	for _, r := range results {
		percentageSum += r.Percentage
		summary.TotalTimeSpent += r.TimeSpent
		if r.Passed {
			summary.PassedExams++
		}
		summary.Progress = append(summary.Progress, models.ProgressPoint{
			ExamID:      r.ExamID,
			Percentage:  r.Percentage,
			CompletedAt: r.CompletedAt,
		})
	}
	summary.AverageScore = percentageSum / float64(len(results))

	sort.SliceStable(summary.Progress, func(i, j int) bool {
		return summary.Progress[i].CompletedAt.Before(summary.Progress[j].CompletedAt)
	})
	return summary
}

// BuildExamHistory groups results per exam, ordered by each exam's most
// recent attempt. Results for exams missing from exams keep the exam id as
// title.
func BuildExamHistory(exams []models.Exam, results []models.ExamResult) []models.ExamHistory {
	titles := make(map[string]string, len(exams))
	for _, e := range exams {
		titles[e.ID] = e.Title
	}

	var order []string
	grouped := make(map[string][]models.ExamResult)
	for _, r := range results {
		if _, ok := grouped[r.ExamID]; !ok {
			order = append(order, r.ExamID)
		}
		grouped[r.ExamID] = append(grouped[r.ExamID], r)
	}

	history := make([]models.ExamHistory, 0, len(order))
	for _, examID := range order {
		attempts := grouped[examID]
		sort.SliceStable(attempts, func(i, j int) bool {
			return attempts[i].CompletedAt.After(attempts[j].CompletedAt)
		})

		title, ok := titles[examID]
		if !ok {
			title = examID
		}

		entry := models.ExamHistory{
			ExamID:        examID,
			ExamTitle:     title,
			Results:       attempts,
			AttemptsCount: len(attempts),
		}
		var sum float64
		for i, r := range attempts {
			sum += r.Percentage
			if i == 0 || r.Percentage > entry.BestScore {
				entry.BestScore = r.Percentage
			}
		}
		entry.AverageScore = sum / float64(len(attempts))
		history = append(history, entry)
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Results[0].CompletedAt.After(history[j].Results[0].CompletedAt)
	})
	return history
}
