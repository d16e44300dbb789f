package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resultIDPrefix = "result-"

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) SubmitExamResult(ctx context.Context, result models.ExamResult) (*models.ExamResult, error) {
	result.ID = resultIDPrefix + uuid.NewString()

	record, err := newResultRecord(result)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}

	stored, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r ResultPostgreSQL) FetchResultByID(ctx context.Context, id string) (*models.ExamResult, error) {
	var record resultRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	result, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) FetchUserResults(ctx context.Context, userID string, filters repositories.ResultFilters) ([]models.ExamResult, error) {
	query := r.db.WithContext(ctx).Model(&resultRecord{}).Where("user_id = ?", userID)
	query = r.applyFilters(query, filters)
	return r.find(query)
}

func (r ResultPostgreSQL) FetchExamResults(ctx context.Context, examID string) ([]models.ExamResult, error) {
	query := r.db.WithContext(ctx).Model(&resultRecord{}).
		Where("exam_id = ?", examID).
		Order("completed_at DESC")
	return r.find(query)
}

func (r ResultPostgreSQL) find(query *gorm.DB) ([]models.ExamResult, error) {
	var records []resultRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	results := make([]models.ExamResult, 0, len(records))
	for i := range records {
		result, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (r ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.ExamID != "" {
		query = query.Where("exam_id = ?", filters.ExamID)
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}

	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order("completed_at " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
