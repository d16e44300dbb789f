package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionUnmarshal_FlatWireShape(t *testing.T) {
	data := `[
		{"id":"q1","type":"single-choice","question":"Capital of France?","category":"geo","difficulty":"easy","points":10,"explanation":"","options":["Paris","Rome"],"correctAnswer":0},
		{"id":"q2","type":"true-false","question":"Sky is blue","category":"science","difficulty":"easy","points":5,"explanation":"","correctAnswer":false},
		{"id":"q3","type":"matching","question":"Match","category":"geo","difficulty":"medium","points":10,"explanation":"","leftItems":["a","b"],"rightItems":["x","y"],"correctMatches":{"0":1,"1":0}},
		{"id":"q4","type":"matrix","question":"Grid","category":"math","difficulty":"hard","points":15,"explanation":"","rows":["r1","r2"],"columns":["c1","c2"],"correctAnswers":{"row-0":1,"row-1":0}},
		{"id":"q5","type":"reading-comprehension","question":"Read","category":"lang","difficulty":"medium","points":20,"explanation":"","passage":"Once upon a time",
		 "subQuestions":[{"id":"s1","type":"single-choice","question":"Who?","category":"lang","difficulty":"easy","points":0,"explanation":"","options":["a","b"],"correctAnswer":1}]},
		{"id":"q6","type":"drag-drop","question":"Sort","category":"lang","difficulty":"easy","points":5,"explanation":"","items":["one","two"],"dropZones":[{"id":"z1","label":"Zone","acceptedItems":["one"]}]}
	]`

	var questions []Question
	require.NoError(t, json.Unmarshal([]byte(data), &questions))
	require.Len(t, questions, 6)

	assert.Equal(t, ChoicePayload{Options: []string{"Paris", "Rome"}, CorrectAnswer: 0}, questions[0].Payload)
	assert.Equal(t, "Capital of France?", questions[0].Text)
	assert.Equal(t, TrueFalsePayload{CorrectAnswer: false}, questions[1].Payload)
	assert.Equal(t, map[int]int{0: 1, 1: 0}, questions[2].Payload.(MatchingPayload).CorrectMatches)
	assert.Equal(t, map[string]int{"row-0": 1, "row-1": 0}, questions[3].Payload.(MatrixPayload).CorrectAnswers)

	reading := questions[4].Payload.(ReadingPayload)
	require.Len(t, reading.SubQuestions, 1)
	assert.Equal(t, ChoicePayload{Options: []string{"a", "b"}, CorrectAnswer: 1}, reading.SubQuestions[0].Payload)

	dragDrop := questions[5].Payload.(DragDropPayload)
	assert.False(t, dragDrop.IsOrdering())
	assert.Len(t, dragDrop.DropZones, 1)

	for _, q := range questions {
		assert.True(t, q.HasConsistentPayload(), q.ID)
	}
}

func TestQuestionMarshal_PreservesPayload(t *testing.T) {
	original := Question{
		ID:     "q1",
		Type:   ShortAnswer,
		Text:   "Name a primary colour",
		Points: 5,
		Payload: TextAnswerPayload{
			CorrectAnswers: []string{"red", "blue"},
			MaxLength:      20,
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"question":"Name a primary colour"`)
	assert.Contains(t, string(data), `"maxLength":20`)

	var decoded Question
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestQuestionUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown type", `{"id":"q","type":"hotspot","question":"?"}`},
		{"missing correct answer", `{"id":"q","type":"single-choice","question":"?","options":["a"]}`},
		{"wrong correct answer shape", `{"id":"q","type":"true-false","question":"?","correctAnswer":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Question
			assert.Error(t, json.Unmarshal([]byte(tt.data), &q))
		})
	}
}

func TestHasConsistentPayload_Mismatch(t *testing.T) {
	q := Question{ID: "q", Type: TrueFalse, Payload: ChoicePayload{}}
	assert.False(t, q.HasConsistentPayload())

	q = Question{ID: "q", Type: Essay}
	assert.False(t, q.HasConsistentPayload())
}
