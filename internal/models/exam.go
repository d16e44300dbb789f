package models

import (
	"time"

	"gorm.io/datatypes"
)

type Exam struct {
	ID           string                      `json:"id" gorm:"primaryKey;size:64"`
	Title        string                      `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description  string                      `json:"description" gorm:"type:text"`
	Category     string                      `json:"category" gorm:"size:100;index"`
	Duration     int                         `json:"duration" gorm:"not null" validate:"min=0"` // minutes
	TotalPoints  int                         `json:"totalPoints" validate:"min=0"`
	PassingScore int                         `json:"passingScore" validate:"min=0"` // raw points, not a percentage
	QuestionIDs  datatypes.JSONSlice[string] `json:"questionIds" gorm:"type:json"`
	Difficulty   DifficultyLevel             `json:"difficulty" gorm:"size:20;index" validate:"omitempty,difficulty_level"`
	Tags         datatypes.JSONSlice[string] `json:"tags" gorm:"type:json"`
	ImageURL     string                      `json:"imageUrl,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// ExamFilters narrows the exam catalog listing.
type ExamFilters struct {
	Category   string          `form:"category" json:"category"`
	Difficulty DifficultyLevel `form:"difficulty" json:"difficulty" validate:"omitempty,difficulty_level"`
	Search     string          `form:"search" json:"search"`
}
