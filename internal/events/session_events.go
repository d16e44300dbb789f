package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to an exam attempt.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionResumed   EventType = "session.resumed"
	EventSessionSaved     EventType = "session.saved"
	EventSessionDiscarded EventType = "session.discarded"
	EventExamSubmitted    EventType = "exam.submitted"
	EventExamTimeExpired  EventType = "exam.time_expired"
	EventSubmissionFailed EventType = "exam.submission_failed"
)

const (
	eventSource  = "exam-session-service"
	eventVersion = "1.0"
)

// SessionEvent is the envelope of every event published by the service.
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	UserID    string                 `json:"user_id"`
	ExamID    string                 `json:"exam_id"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewSessionEvent(eventType EventType, userID, examID string, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		UserID:    userID,
		ExamID:    examID,
		Data:      data,
	}
}

// Payloads

type SessionStartedEvent struct {
	QuestionCount int `json:"question_count"`
	TimeRemaining int `json:"time_remaining"` // seconds
}

type SessionSavedEvent struct {
	CurrentIndex  int `json:"current_index"`
	AnsweredCount int `json:"answered_count"`
	TimeRemaining int `json:"time_remaining"`
}

type ExamSubmittedEvent struct {
	ResultID    string    `json:"result_id"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"total_points"`
	Percentage  float64   `json:"percentage"`
	Passed      bool      `json:"passed"`
	TimeSpent   int       `json:"time_spent"`
	CompletedAt time.Time `json:"completed_at"`
	AutoSubmit  bool      `json:"auto_submit"`
}

type SubmissionFailedEvent struct {
	Reason string `json:"reason"`
}
