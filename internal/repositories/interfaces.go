package repositories

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ===== SHARED FILTER STRUCTS =====

type ResultFilters struct {
	ExamID    string     `json:"exam_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortOrder string     `json:"sort_order"` // "asc", "desc" by completion time
}
