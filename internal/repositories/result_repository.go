package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// ResultRepository stores submitted exam results. Results are never updated.
type ResultRepository interface {
	// SubmitExamResult assigns the result id and persists the result.
	SubmitExamResult(ctx context.Context, result models.ExamResult) (*models.ExamResult, error)
	FetchResultByID(ctx context.Context, id string) (*models.ExamResult, error)
	FetchUserResults(ctx context.Context, userID string, filters ResultFilters) ([]models.ExamResult, error)
	FetchExamResults(ctx context.Context, examID string) ([]models.ExamResult, error)
}
