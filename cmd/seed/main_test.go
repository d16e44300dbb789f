package main

import (
	"strings"
	"testing"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `{
  "exams": [
    {"id": "1", "title": "JavaScript Basics", "duration": 30, "passingScore": 10, "questionIds": ["q2", "q1"]},
    {"id": "2", "title": "Empty"}
  ],
  "questions": [
    {"id": "q1", "examId": "1", "type": "single-choice", "question": "2+2?", "options": ["3", "4"], "correctAnswer": 1, "points": 10},
    {"id": "q2", "examId": "1", "type": "true-false", "question": "JS is typed?", "correctAnswer": false, "points": 5},
    {"id": "q3", "examId": "1", "type": "ordering", "question": "Order", "items": ["a", "b"], "correctOrder": [1, 0], "points": 5}
  ]
}`

func TestReadFixture(t *testing.T) {
	bundles, err := readFixture(strings.NewReader(sampleFixture))
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	first := bundles[0]
	assert.Equal(t, "JavaScript Basics", first.exam.Title)
	require.Len(t, first.questions, 3)
	assert.Equal(t, "q2", first.questions[0].ID)
	assert.Equal(t, "q1", first.questions[1].ID)
	assert.Equal(t, "q3", first.questions[2].ID)
	assert.Equal(t, models.TrueFalsePayload{CorrectAnswer: false}, first.questions[0].Payload)

	assert.Empty(t, bundles[1].questions)
}

func TestReadFixture_RejectsMalformedQuestion(t *testing.T) {
	_, err := readFixture(strings.NewReader(`{"exams": [], "questions": [{"id": "q1", "examId": "1", "type": "single-choice", "correctAnswer": "x"}]}`))
	assert.Error(t, err)
}
