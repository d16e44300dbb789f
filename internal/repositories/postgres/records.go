package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// questionRecord stores a question as its wire JSON next to the columns
// used for querying.
type questionRecord struct {
	ID         string         `gorm:"primaryKey;size:64"`
	ExamID     string         `gorm:"size:64;index;not null"`
	Position   int            `gorm:"not null"`
	Type       string         `gorm:"size:32;not null"`
	Category   string         `gorm:"size:100;index"`
	Difficulty string         `gorm:"size:20"`
	Points     int            `gorm:"not null"`
	Data       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (questionRecord) TableName() string {
	return "exam_questions"
}

func newQuestionRecord(examID string, position int, q models.Question) (*questionRecord, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode question %s: %w", q.ID, err)
	}
	return &questionRecord{
		ID:         q.ID,
		ExamID:     examID,
		Position:   position,
		Type:       string(q.Type),
		Category:   q.Category,
		Difficulty: string(q.Difficulty),
		Points:     q.Points,
		Data:       datatypes.JSON(data),
	}, nil
}

func (r *questionRecord) toModel() (models.Question, error) {
	var q models.Question
	if err := json.Unmarshal(r.Data, &q); err != nil {
		return models.Question{}, fmt.Errorf("failed to decode question %s: %w", r.ID, err)
	}
	return q, nil
}

type resultRecord struct {
	ID          string         `gorm:"primaryKey;size:64"`
	UserID      string         `gorm:"size:64;index;not null"`
	ExamID      string         `gorm:"size:64;index;not null"`
	Score       int            `gorm:"not null"`
	TotalPoints int            `gorm:"not null"`
	Percentage  float64        `gorm:"not null"`
	Passed      bool           `gorm:"not null"`
	TimeSpent   int            `gorm:"not null"`
	CompletedAt time.Time      `gorm:"index;not null"`
	Answers     datatypes.JSON `gorm:"not null"`
}

func (resultRecord) TableName() string {
	return "exam_results"
}

func newResultRecord(result models.ExamResult) (*resultRecord, error) {
	answers := result.Answers
	if answers == nil {
		answers = []models.UserAnswer{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	return &resultRecord{
		ID:          result.ID,
		UserID:      result.UserID,
		ExamID:      result.ExamID,
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Percentage:  result.Percentage,
		Passed:      result.Passed,
		TimeSpent:   result.TimeSpent,
		CompletedAt: result.CompletedAt,
		Answers:     datatypes.JSON(data),
	}, nil
}

func (r *resultRecord) toModel() (models.ExamResult, error) {
	var answers []models.UserAnswer
	if err := json.Unmarshal(r.Answers, &answers); err != nil {
		return models.ExamResult{}, fmt.Errorf("failed to decode answers of result %s: %w", r.ID, err)
	}
	return models.ExamResult{
		ID:          r.ID,
		UserID:      r.UserID,
		ExamID:      r.ExamID,
		Score:       r.Score,
		TotalPoints: r.TotalPoints,
		Percentage:  r.Percentage,
		Answers:     answers,
		TimeSpent:   r.TimeSpent,
		CompletedAt: r.CompletedAt,
		Passed:      r.Passed,
	}, nil
}

// AutoMigrate creates or updates the tables used by the repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Exam{}, &questionRecord{}, &resultRecord{})
}
