package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

// CachedExamRepository serves exams and their questions from the cache and
// falls through to the wrapped repository on a miss. Cache failures are
// logged and never fail a read.
type CachedExamRepository struct {
	next   repositories.ExamRepository
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedExamRepository(next repositories.ExamRepository, cache CacheService, ttl time.Duration, logger *slog.Logger) *CachedExamRepository {
	return &CachedExamRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func examKey(id string) string {
	return fmt.Sprintf("exam:%s", id)
}

func examQuestionsKey(id string) string {
	return fmt.Sprintf("exam:%s:questions", id)
}

func (r *CachedExamRepository) FetchExam(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	if r.read(ctx, examKey(id), &exam) {
		return &exam, nil
	}

	fetched, err := r.next.FetchExam(ctx, id)
	if err != nil {
		return nil, err
	}
	r.write(ctx, examKey(id), fetched)
	return fetched, nil
}

func (r *CachedExamRepository) FetchExamQuestions(ctx context.Context, examID string) ([]models.Question, error) {
	var questions []models.Question
	if r.read(ctx, examQuestionsKey(examID), &questions) {
		return questions, nil
	}

	fetched, err := r.next.FetchExamQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	if len(fetched) > 0 {
		r.write(ctx, examQuestionsKey(examID), fetched)
	}
	return fetched, nil
}

func (r *CachedExamRepository) ListExams(ctx context.Context, filters models.ExamFilters) ([]models.Exam, error) {
	return r.next.ListExams(ctx, filters)
}

func (r *CachedExamRepository) SaveExam(ctx context.Context, exam *models.Exam, questions []models.Question) error {
	if err := r.next.SaveExam(ctx, exam, questions); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, examKey(exam.ID)); err != nil {
		r.logger.WarnContext(ctx, "Failed to invalidate exam cache", "exam_id", exam.ID, "error", err)
	}
	if err := r.cache.DeletePattern(ctx, examKey(exam.ID)+":*"); err != nil {
		r.logger.WarnContext(ctx, "Failed to invalidate exam cache", "exam_id", exam.ID, "error", err)
	}
	return nil
}

func (r *CachedExamRepository) read(ctx context.Context, key string, dest interface{}) bool {
	err := r.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.WarnContext(ctx, "Cache read failed", "key", key, "error", err)
	}
	return false
}

func (r *CachedExamRepository) write(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}
