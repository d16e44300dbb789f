package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/scoring"
)

type ResultService interface {
	GetResult(ctx context.Context, id string) (*models.ExamResult, error)
	// GetReview returns a result with its exam, questions and per-category
	// breakdown.
	GetReview(ctx context.Context, id string) (*models.ResultReview, error)
	ListUserResults(ctx context.Context, userID string, filters repositories.ResultFilters) ([]models.ExamResult, error)
	ListExamResults(ctx context.Context, examID string) ([]models.ExamResult, error)
	GetHistory(ctx context.Context, userID string) ([]models.ExamHistory, error)
	GetStatistics(ctx context.Context, userID string) (models.UserSummary, error)
}

type resultService struct {
	results repositories.ResultRepository
	exams   repositories.ExamRepository
	logger  *slog.Logger
	ops     *ServiceLogger
}

func NewResultService(results repositories.ResultRepository, exams repositories.ExamRepository, logger *slog.Logger) ResultService {
	return &resultService{
		results: results,
		exams:   exams,
		logger:  logger,
		ops:     NewServiceLogger(logger, LogConfig{Service: "exam-session-service", Component: "results"}),
	}
}

func (s *resultService) GetResult(ctx context.Context, id string) (*models.ExamResult, error) {
	result, err := s.results.FetchResultByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, ErrResultNotFound, "fetch result")
	}
	return result, nil
}

func (s *resultService) GetReview(ctx context.Context, id string) (review *models.ResultReview, err error) {
	op := s.ops.WithOperation(ctx, "review_result", "")
	defer func() { op.LogResult(id, "result", err) }()

	result, err := s.GetResult(ctx, id)
	if err != nil {
		return nil, err
	}

	exam, err := s.exams.FetchExam(ctx, result.ExamID)
	if err != nil {
		return nil, mapRepositoryError(err, ErrExamNotFound, "fetch exam for review")
	}
	questions, err := s.exams.FetchExamQuestions(ctx, result.ExamID)
	if err != nil {
		return nil, mapRepositoryError(err, ErrExamNotFound, "fetch questions for review")
	}

	var manual []string
	for _, q := range questions {
		if !scoring.IsAutoGraded(q) {
			manual = append(manual, q.ID)
		}
	}

	return &models.ResultReview{
		Result:        *result,
		Exam:          *exam,
		Questions:     questions,
		CategoryStats: scoring.CategoryStats(questions, result.Answers),
		ManualReview:  manual,
	}, nil
}

func (s *resultService) ListUserResults(ctx context.Context, userID string, filters repositories.ResultFilters) ([]models.ExamResult, error) {
	results, err := s.results.FetchUserResults(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results for user %s: %w", userID, err)
	}
	return results, nil
}

func (s *resultService) ListExamResults(ctx context.Context, examID string) ([]models.ExamResult, error) {
	results, err := s.results.FetchExamResults(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results for exam %s: %w", examID, err)
	}
	return results, nil
}

func (s *resultService) GetHistory(ctx context.Context, userID string) ([]models.ExamHistory, error) {
	results, err := s.ListUserResults(ctx, userID, repositories.ResultFilters{})
	if err != nil {
		return nil, err
	}

	exams, err := s.exams.ListExams(ctx, models.ExamFilters{})
	if err != nil {
		// Titles fall back to exam ids.
		s.logger.WarnContext(ctx, "Failed to list exams for history titles", "error", err)
		exams = nil
	}
	return scoring.BuildExamHistory(exams, results), nil
}

func (s *resultService) GetStatistics(ctx context.Context, userID string) (models.UserSummary, error) {
	results, err := s.ListUserResults(ctx, userID, repositories.ResultFilters{})
	if err != nil {
		return models.UserSummary{}, err
	}
	return scoring.SummarizeResults(results), nil
}
