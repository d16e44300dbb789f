package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (e ExamPostgreSQL) FetchExam(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	if err := e.db.WithContext(ctx).First(&exam, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

func (e ExamPostgreSQL) FetchExamQuestions(ctx context.Context, examID string) ([]models.Question, error) {
	var records []questionRecord
	if err := e.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("position ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(records))
	for i := range records {
		q, err := records[i].toModel()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (e ExamPostgreSQL) ListExams(ctx context.Context, filters models.ExamFilters) ([]models.Exam, error) {
	var exams []models.Exam

	query := e.db.WithContext(ctx).Model(&models.Exam{})
	query = e.applyFilters(query, filters)

	if err := query.Order("created_at DESC").Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

// SaveExam upserts the exam and replaces its question list.
func (e ExamPostgreSQL) SaveExam(ctx context.Context, exam *models.Exam, questions []models.Question) error {
	if len(exam.QuestionIDs) == 0 {
		exam.QuestionIDs = make([]string, 0, len(questions))
		for _, q := range questions {
			exam.QuestionIDs = append(exam.QuestionIDs, q.ID)
		}
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(exam).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", exam.ID).Delete(&questionRecord{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}

		records := make([]*questionRecord, 0, len(questions))
		for i, q := range questions {
			record, err := newQuestionRecord(exam.ID, i, q)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error
	})
}

func (e ExamPostgreSQL) applyFilters(query *gorm.DB, filters models.ExamFilters) *gorm.DB {
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return query
}
