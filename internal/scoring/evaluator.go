// Package scoring decides answer correctness and turns answer sets into
// scores, pass/fail verdicts and per-category breakdowns.
package scoring

import (
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// Evaluation is the full outcome of checking one answer.
type Evaluation struct {
	Correct bool
	// AutoGraded is false for question kinds that need a human grader.
	AutoGraded bool
	// SubResults holds per-sub-question correctness for reading comprehension.
	SubResults map[string]bool
}

// IsCorrect reports whether answer is a correct response to q. It never
// panics: a nil answer or a shape that does not fit the question is false.
func IsCorrect(q models.Question, answer models.AnswerValue) bool {
	return Evaluate(q, answer).Correct
}

// IsAutoGraded reports whether the evaluator can ever mark q correct.
func IsAutoGraded(q models.Question) bool {
	switch p := q.Payload.(type) {
	case models.EssayPayload:
		return false
	case models.DragDropPayload:
		return p.IsOrdering()
	default:
		return q.HasConsistentPayload()
	}
}

func Evaluate(q models.Question, answer models.AnswerValue) Evaluation {
	if !q.HasConsistentPayload() {
		return Evaluation{}
	}

	switch p := q.Payload.(type) {
	case models.ChoicePayload:
		return graded(checkChoice(p, answer))
	case models.MultipleChoicePayload:
		return graded(checkMultipleChoice(p, answer))
	case models.TrueFalsePayload:
		return graded(checkTrueFalse(p, answer))
	case models.TextAnswerPayload:
		return graded(checkText(p, answer))
	case models.MatchingPayload:
		return graded(checkMatching(p, answer))
	case models.OrderingPayload:
		return graded(checkOrder(p.CorrectOrder, answer, p.Items))
	case models.DragDropPayload:
		if !p.IsOrdering() {
			return Evaluation{}
		}
		return graded(checkOrder(p.CorrectOrder, answer, p.Items))
	case models.MatrixPayload:
		return graded(checkMatrix(p, answer))
	case models.ReadingPayload:
		return checkReading(p, answer)
	default:
		// essay
		return Evaluation{}
	}
}

func graded(correct bool) Evaluation {
	return Evaluation{Correct: correct, AutoGraded: true}
}

func checkChoice(p models.ChoicePayload, answer models.AnswerValue) bool {
	idx, ok := answer.(models.IndexAnswer)
	return ok && int(idx) == p.CorrectAnswer
}

func checkTrueFalse(p models.TrueFalsePayload, answer models.AnswerValue) bool {
	b, ok := answer.(models.BoolAnswer)
	return ok && bool(b) == p.CorrectAnswer
}

func checkMultipleChoice(p models.MultipleChoicePayload, answer models.AnswerValue) bool {
	selected, ok := answer.(models.IndexListAnswer)
	if !ok {
		return false
	}
	return sameSet(selected, p.CorrectAnswers)
}

func sameSet(a, b []int) bool {
	left := make(map[int]struct{}, len(a))
	for _, v := range a {
		left[v] = struct{}{}
	}
	right := make(map[int]struct{}, len(b))
	for _, v := range b {
		right[v] = struct{}{}
	}
	if len(left) != len(right) {
		return false
	}
	for v := range left {
		if _, ok := right[v]; !ok {
			return false
		}
	}
	return true
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkText(p models.TextAnswerPayload, answer models.AnswerValue) bool {
	text, ok := answer.(models.TextAnswer)
	if !ok {
		return false
	}
	submitted := normalizeText(string(text))
	for _, accepted := range p.CorrectAnswers {
		if normalizeText(accepted) == submitted {
			return true
		}
	}
	return false
}

func checkMatching(p models.MatchingPayload, answer models.AnswerValue) bool {
	pairs, ok := answer.(models.KeyedAnswer)
	if !ok {
		return false
	}
	for left, right := range p.CorrectMatches {
		got, present := pairs[strconv.Itoa(left)]
		if !present || got != right {
			return false
		}
	}
	return true
}

// checkOrder compares positionally. A list of item labels is resolved to
// item indices first.
func checkOrder(correct []int, answer models.AnswerValue, items []string) bool {
	var submitted []int
	switch a := answer.(type) {
	case models.IndexListAnswer:
		submitted = a
	case models.TextListAnswer:
		resolved, ok := labelsToIndices(a, items)
		if !ok {
			return false
		}
		submitted = resolved
	default:
		return false
	}

	if len(submitted) != len(correct) {
		return false
	}
	for i := range correct {
		if submitted[i] != correct[i] {
			return false
		}
	}
	return true
}

func labelsToIndices(labels []string, items []string) ([]int, bool) {
	positions := make(map[string]int, len(items))
	for i, item := range items {
		if _, seen := positions[item]; !seen {
			positions[item] = i
		}
	}
	out := make([]int, 0, len(labels))
	for _, label := range labels {
		idx, ok := positions[label]
		if !ok {
			return nil, false
		}
		out = append(out, idx)
	}
	return out, true
}

func checkMatrix(p models.MatrixPayload, answer models.AnswerValue) bool {
	cells, ok := answer.(models.KeyedAnswer)
	if !ok {
		return false
	}
	for row, column := range p.CorrectAnswers {
		got, present := cells[row]
		if !present || got != column {
			return false
		}
	}
	return true
}

// checkReading evaluates every sub-question so SubResults is complete even
// after the first miss.
func checkReading(p models.ReadingPayload, answer models.AnswerValue) Evaluation {
	keyed, ok := answer.(models.KeyedAnswer)
	eval := Evaluation{
		Correct:    ok,
		AutoGraded: true,
		SubResults: make(map[string]bool, len(p.SubQuestions)),
	}

	for _, sub := range p.SubQuestions {
		var subAnswer models.AnswerValue
		if v, present := keyed[sub.ID]; ok && present {
			subAnswer = models.IndexAnswer(v)
		}
		correct := IsCorrect(sub, subAnswer)
		eval.SubResults[sub.ID] = correct
		eval.Correct = eval.Correct && correct
	}
	return eval
}
