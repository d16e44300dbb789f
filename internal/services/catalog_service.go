package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
)

type CatalogService interface {
	ListExams(ctx context.Context, filters models.ExamFilters) ([]models.Exam, error)
	GetExam(ctx context.Context, id string) (*models.Exam, error)
	GetExamQuestions(ctx context.Context, id string) ([]models.Question, error)
	// ImportExam validates and stores an exam with its ordered questions.
	ImportExam(ctx context.Context, exam *models.Exam, questions []models.Question) error
}

type catalogService struct {
	exams     repositories.ExamRepository
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewCatalogService(exams repositories.ExamRepository, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		exams:     exams,
		logger:    NewServiceLogger(logger, LogConfig{Service: "exam-session-service", Component: "catalog"}),
		validator: validator,
	}
}

func (s *catalogService) ListExams(ctx context.Context, filters models.ExamFilters) ([]models.Exam, error) {
	if err := s.validator.Validate(filters); err != nil {
		return nil, err
	}

	exams, err := s.exams.ListExams(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, nil
}

func (s *catalogService) GetExam(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.exams.FetchExam(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, ErrExamNotFound, "fetch exam")
	}
	return exam, nil
}

func (s *catalogService) GetExamQuestions(ctx context.Context, id string) ([]models.Question, error) {
	if _, err := s.GetExam(ctx, id); err != nil {
		return nil, err
	}

	questions, err := s.exams.FetchExamQuestions(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, ErrExamNotFound, "fetch exam questions")
	}
	return questions, nil
}

func (s *catalogService) ImportExam(ctx context.Context, exam *models.Exam, questions []models.Question) (err error) {
	op := s.logger.WithOperation(ctx, "import_exam", "")
	defer func() { op.LogResult(exam.ID, "exam", err) }()
	s.logger.Debug(ctx, "Importing exam", "exam_id", exam.ID, "questions", len(questions))

	if exam.ID == "" {
		return NewValidationError("id", "is required", nil)
	}
	if err := s.validator.Validate(exam); err != nil {
		return err
	}
	for i := range questions {
		if err := s.validator.ValidateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("%w: question %d of exam %s: %w", ErrValidationFailed, i+1, exam.ID, err)
		}
	}
	if err := s.validator.Question().ValidateBatch(questions); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	ids := make([]string, len(questions))
	total := 0
	for i, q := range questions {
		ids[i] = q.ID
		total += q.Points
	}
	exam.QuestionIDs = ids
	if exam.TotalPoints == 0 {
		exam.TotalPoints = total
	}
	if exam.PassingScore > exam.TotalPoints {
		return NewValidationError("passingScore", "cannot exceed total points", exam.PassingScore)
	}

	if err := s.exams.SaveExam(ctx, exam, questions); err != nil {
		return fmt.Errorf("failed to save exam %s: %w", exam.ID, err)
	}
	return nil
}
