package models

import "time"

// ExamResult is created once at submission and never modified.
type ExamResult struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	ExamID      string       `json:"examId"`
	Score       int          `json:"score"`
	TotalPoints int          `json:"totalPoints"`
	Percentage  float64      `json:"percentage"`
	Answers     []UserAnswer `json:"answers"`
	TimeSpent   int          `json:"timeSpent"`
	CompletedAt time.Time    `json:"completedAt"`
	Passed      bool         `json:"passed"`
}

type CategoryStats struct {
	Category         string  `json:"category"`
	TotalQuestions   int     `json:"totalQuestions"`
	CorrectAnswers   int     `json:"correctAnswers"`
	Accuracy         float64 `json:"accuracy"`
	AverageTimeSpent float64 `json:"averageTimeSpent"`
}

// ExamHistory groups every attempt a user made on one exam.
type ExamHistory struct {
	ExamID        string       `json:"examId"`
	ExamTitle     string       `json:"examTitle"`
	Results       []ExamResult `json:"results"`
	AverageScore  float64      `json:"averageScore"`
	BestScore     float64      `json:"bestScore"`
	AttemptsCount int          `json:"attemptsCount"`
}

type ProgressPoint struct {
	ExamID      string    `json:"examId"`
	Percentage  float64   `json:"percentage"`
	CompletedAt time.Time `json:"completedAt"`
}

// UserSummary is the statistics overview over all of a user's results.
type UserSummary struct {
	TotalExams     int             `json:"totalExams"`
	AverageScore   float64         `json:"averageScore"`
	TotalTimeSpent int             `json:"totalTimeSpent"`
	PassedExams    int             `json:"passedExams"`
	Progress       []ProgressPoint `json:"progress"`
}

// ResultReview is a result together with the material needed to review it.
type ResultReview struct {
	Result        ExamResult      `json:"result"`
	Exam          Exam            `json:"exam"`
	Questions     []Question      `json:"questions"`
	CategoryStats []CategoryStats `json:"categoryStats"`
	// ManualReview lists questions no answer can be auto-graded for.
	ManualReview  []string        `json:"manualReview,omitempty"`
}
