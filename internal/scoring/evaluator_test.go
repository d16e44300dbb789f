package scoring

import (
	"testing"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func singleChoice(id string, correct int) models.Question {
	return models.Question{
		ID:       id,
		Type:     models.SingleChoice,
		Category: "general",
		Points:   10,
		Payload:  models.ChoicePayload{Options: []string{"a", "b", "c", "d"}, CorrectAnswer: correct},
	}
}

func TestIsCorrect_SingleChoiceFamily(t *testing.T) {
	for _, qt := range []models.QuestionType{models.SingleChoice, models.ImageBased, models.AudioBased} {
		q := singleChoice("q1", 2)
		q.Type = qt

		assert.True(t, IsCorrect(q, models.IndexAnswer(2)), qt)
		for _, wrong := range []int{0, 1, 3, -1} {
			assert.False(t, IsCorrect(q, models.IndexAnswer(wrong)), qt)
		}
		assert.False(t, IsCorrect(q, nil), qt)
		assert.False(t, IsCorrect(q, models.TextAnswer("2")), qt)
	}
}

func TestIsCorrect_TrueFalse(t *testing.T) {
	q := models.Question{ID: "tf", Type: models.TrueFalse, Payload: models.TrueFalsePayload{CorrectAnswer: false}}

	assert.True(t, IsCorrect(q, models.BoolAnswer(false)))
	assert.False(t, IsCorrect(q, models.BoolAnswer(true)))
	assert.False(t, IsCorrect(q, nil), "missing answer is not false")
	assert.False(t, IsCorrect(q, models.IndexAnswer(0)))
}

func TestIsCorrect_MultipleChoice(t *testing.T) {
	q := models.Question{
		ID:      "mc",
		Type:    models.MultipleChoice,
		Payload: models.MultipleChoicePayload{Options: []string{"a", "b", "c", "d"}, CorrectAnswers: []int{0, 2, 3}},
	}

	assert.True(t, IsCorrect(q, models.IndexListAnswer{0, 2, 3}))
	assert.True(t, IsCorrect(q, models.IndexListAnswer{3, 0, 2}))
	assert.True(t, IsCorrect(q, models.IndexListAnswer{2, 3, 0, 2}))
	assert.False(t, IsCorrect(q, models.IndexListAnswer{0, 2}))
	assert.False(t, IsCorrect(q, models.IndexListAnswer{0, 1, 2, 3}))
	assert.False(t, IsCorrect(q, models.IndexListAnswer{}))
	assert.False(t, IsCorrect(q, models.IndexAnswer(0)))

	empty := q
	empty.Payload = models.MultipleChoicePayload{Options: []string{"a"}, CorrectAnswers: []int{}}
	assert.True(t, IsCorrect(empty, models.IndexListAnswer{}))
	assert.False(t, IsCorrect(empty, models.IndexListAnswer{0}))
}

func TestIsCorrect_TextAnswers(t *testing.T) {
	for _, qt := range []models.QuestionType{models.FillInBlank, models.ShortAnswer} {
		q := models.Question{
			ID:      "txt",
			Type:    qt,
			Payload: models.TextAnswerPayload{CorrectAnswers: []string{"Paris", " City of Light "}},
		}

		assert.True(t, IsCorrect(q, models.TextAnswer("  Paris  ")), qt)
		assert.True(t, IsCorrect(q, models.TextAnswer("paris")), qt)
		assert.True(t, IsCorrect(q, models.TextAnswer("CITY OF LIGHT")), qt)
		assert.False(t, IsCorrect(q, models.TextAnswer("Lyon")), qt)
		assert.False(t, IsCorrect(q, models.TextAnswer("")), qt)
		assert.False(t, IsCorrect(q, models.TextListAnswer{"Paris"}), qt)
	}
}

func TestIsCorrect_Matching(t *testing.T) {
	q := models.Question{
		ID:   "match",
		Type: models.Matching,
		Payload: models.MatchingPayload{
			LeftItems:      []string{"a", "b", "c"},
			RightItems:     []string{"x", "y", "z"},
			CorrectMatches: map[int]int{0: 2, 1: 0, 2: 1},
		},
	}

	assert.True(t, IsCorrect(q, models.KeyedAnswer{"0": 2, "1": 0, "2": 1}))
	assert.False(t, IsCorrect(q, models.KeyedAnswer{"0": 2, "1": 0}), "missing left item")
	assert.False(t, IsCorrect(q, models.KeyedAnswer{"0": 2, "1": 1, "2": 0}))
	assert.False(t, IsCorrect(q, models.IndexListAnswer{2, 0, 1}))
}

func TestIsCorrect_Ordering(t *testing.T) {
	q := models.Question{
		ID:      "order",
		Type:    models.Ordering,
		Payload: models.OrderingPayload{Items: []string{"a", "b", "c", "d"}, CorrectOrder: []int{2, 0, 3, 1}},
	}
	correct := []int{2, 0, 3, 1}

	assert.True(t, IsCorrect(q, models.IndexListAnswer(correct)))
	for i := 0; i+1 < len(correct); i++ {
		swapped := append([]int{}, correct...)
		swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
		assert.False(t, IsCorrect(q, models.IndexListAnswer(swapped)), "swap at %d", i)
	}
	assert.False(t, IsCorrect(q, models.IndexListAnswer{2, 0, 3}))
	assert.False(t, IsCorrect(q, models.IndexListAnswer{2, 0, 3, 1, 1}))
}

func TestIsCorrect_DragDrop(t *testing.T) {
	ordering := models.Question{
		ID:      "dd",
		Type:    models.DragDrop,
		Payload: models.DragDropPayload{Items: []string{"one", "two", "three"}, CorrectOrder: []int{1, 2, 0}},
	}
	assert.True(t, IsCorrect(ordering, models.IndexListAnswer{1, 2, 0}))
	assert.True(t, IsCorrect(ordering, models.TextListAnswer{"two", "three", "one"}))
	assert.False(t, IsCorrect(ordering, models.TextListAnswer{"one", "two", "three"}))
	assert.False(t, IsCorrect(ordering, models.TextListAnswer{"two", "three", "four"}))
	assert.True(t, IsAutoGraded(ordering))

	zones := models.Question{
		ID:   "dz",
		Type: models.DragDrop,
		Payload: models.DragDropPayload{
			Items:     []string{"cat", "oak"},
			DropZones: []models.DropZone{{ID: "animals", AcceptedItems: []string{"cat"}}, {ID: "plants", AcceptedItems: []string{"oak"}}},
		},
	}
	eval := Evaluate(zones, models.ZoneAnswer{"animals": {"cat"}, "plants": {"oak"}})
	assert.False(t, eval.Correct)
	assert.False(t, eval.AutoGraded)
	assert.False(t, IsAutoGraded(zones))
}

func TestIsCorrect_Matrix(t *testing.T) {
	q := models.Question{
		ID:   "matrix",
		Type: models.Matrix,
		Payload: models.MatrixPayload{
			Rows:           []string{"r0", "r1"},
			Columns:        []string{"c0", "c1", "c2"},
			CorrectAnswers: map[string]int{"row-0": 2, "row-1": 0},
		},
	}

	assert.True(t, IsCorrect(q, models.KeyedAnswer{"row-0": 2, "row-1": 0}))
	assert.True(t, IsCorrect(q, models.KeyedAnswer{"row-0": 2, "row-1": 0, "row-9": 1}))
	assert.False(t, IsCorrect(q, models.KeyedAnswer{"row-0": 2}))
	assert.False(t, IsCorrect(q, models.KeyedAnswer{"row-0": 1, "row-1": 0}))
	assert.False(t, IsCorrect(q, models.TextAnswer("row-0")))
}

func TestEvaluate_ReadingComprehension(t *testing.T) {
	q := models.Question{
		ID:   "rc",
		Type: models.ReadingComprehension,
		Payload: models.ReadingPayload{
			Passage:      "text",
			SubQuestions: []models.Question{singleChoice("s1", 0), singleChoice("s2", 1), singleChoice("s3", 3)},
		},
	}

	all := Evaluate(q, models.KeyedAnswer{"s1": 0, "s2": 1, "s3": 3})
	assert.True(t, all.Correct)
	assert.True(t, all.AutoGraded)

	partial := Evaluate(q, models.KeyedAnswer{"s1": 2, "s2": 1})
	assert.False(t, partial.Correct)
	assert.Equal(t, map[string]bool{"s1": false, "s2": true, "s3": false}, partial.SubResults)

	assert.False(t, IsCorrect(q, models.IndexAnswer(0)))

	empty := q
	empty.Payload = models.ReadingPayload{Passage: "text"}
	assert.True(t, IsCorrect(empty, models.KeyedAnswer{}))
}

func TestIsCorrect_Essay(t *testing.T) {
	q := models.Question{
		ID:      "essay",
		Type:    models.Essay,
		Payload: models.EssayPayload{MinWords: 10, MaxWords: 100},
	}

	eval := Evaluate(q, models.TextAnswer("A thoughtful and complete answer."))
	assert.False(t, eval.Correct)
	assert.False(t, eval.AutoGraded)
}

func TestIsCorrect_InconsistentQuestion(t *testing.T) {
	q := models.Question{ID: "bad", Type: models.TrueFalse, Payload: models.ChoicePayload{CorrectAnswer: 0}}
	assert.False(t, IsCorrect(q, models.IndexAnswer(0)))

	noPayload := models.Question{ID: "empty", Type: models.SingleChoice}
	assert.False(t, IsCorrect(noPayload, models.IndexAnswer(0)))
}
