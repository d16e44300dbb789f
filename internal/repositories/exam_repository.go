package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// ExamRepository is the read side of the exam catalog plus the write path
// used when seeding.
type ExamRepository interface {
	FetchExam(ctx context.Context, id string) (*models.Exam, error)
	// FetchExamQuestions returns the questions of an exam in exam order.
	FetchExamQuestions(ctx context.Context, examID string) ([]models.Question, error)
	ListExams(ctx context.Context, filters models.ExamFilters) ([]models.Exam, error)
	SaveExam(ctx context.Context, exam *models.Exam, questions []models.Question) error
}
