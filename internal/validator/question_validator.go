package validator

import (
	"fmt"
	"strconv"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

const (
	minOptions = 2
	maxOptions = 10
)

// QuestionValidator checks that a question's payload can actually be
// answered and graded.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if question.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if question.Points < 0 {
		return fmt.Errorf("question points cannot be negative")
	}
	if !question.Type.IsValid() {
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
	if !question.HasConsistentPayload() {
		return fmt.Errorf("payload does not match question type %s", question.Type)
	}

	return v.ValidatePayload(question.Payload)
}

// ValidateBatch validates multiple questions and rejects duplicate ids
func (v *QuestionValidator) ValidateBatch(questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	seen := make(map[string]bool, len(questions))
	for i := range questions {
		if err := v.ValidateQuestion(&questions[i]); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
		if seen[questions[i].ID] {
			return fmt.Errorf("duplicate question id %q", questions[i].ID)
		}
		seen[questions[i].ID] = true
	}

	return nil
}

// ValidatePayload validates the type-specific part of a question
func (v *QuestionValidator) ValidatePayload(payload models.QuestionPayload) error {
	switch p := payload.(type) {
	case models.ChoicePayload:
		return v.validateChoice(p)
	case models.MultipleChoicePayload:
		return v.validateMultipleChoice(p)
	case models.TrueFalsePayload:
		return nil
	case models.TextAnswerPayload:
		return v.validateTextAnswer(p)
	case models.EssayPayload:
		return v.validateEssay(p)
	case models.MatchingPayload:
		return v.validateMatching(p)
	case models.OrderingPayload:
		return validatePermutation(p.CorrectOrder, len(p.Items))
	case models.DragDropPayload:
		return v.validateDragDrop(p)
	case models.MatrixPayload:
		return v.validateMatrix(p)
	case models.ReadingPayload:
		return v.validateReading(p)
	default:
		return fmt.Errorf("missing question payload")
	}
}

func validateOptions(options []string) error {
	if len(options) < minOptions {
		return fmt.Errorf("must have at least %d options", minOptions)
	}
	if len(options) > maxOptions {
		return fmt.Errorf("cannot have more than %d options", maxOptions)
	}
	for _, option := range options {
		if option == "" {
			return fmt.Errorf("option text cannot be empty")
		}
	}
	return nil
}

func (v *QuestionValidator) validateChoice(p models.ChoicePayload) error {
	if err := validateOptions(p.Options); err != nil {
		return err
	}
	if p.CorrectAnswer < 0 || p.CorrectAnswer >= len(p.Options) {
		return fmt.Errorf("correct answer %d does not match any option", p.CorrectAnswer)
	}
	return nil
}

func (v *QuestionValidator) validateMultipleChoice(p models.MultipleChoicePayload) error {
	if err := validateOptions(p.Options); err != nil {
		return err
	}
	if len(p.CorrectAnswers) == 0 {
		return fmt.Errorf("must have at least 1 correct answer")
	}
	seen := make(map[int]bool, len(p.CorrectAnswers))
	for _, idx := range p.CorrectAnswers {
		if idx < 0 || idx >= len(p.Options) {
			return fmt.Errorf("correct answer %d does not match any option", idx)
		}
		if seen[idx] {
			return fmt.Errorf("correct answer %d listed twice", idx)
		}
		seen[idx] = true
	}
	return nil
}

func (v *QuestionValidator) validateTextAnswer(p models.TextAnswerPayload) error {
	if len(p.CorrectAnswers) == 0 {
		return fmt.Errorf("must have at least 1 accepted answer")
	}
	for _, answer := range p.CorrectAnswers {
		if answer == "" {
			return fmt.Errorf("accepted answer cannot be empty")
		}
		if p.MaxLength > 0 && len(answer) > p.MaxLength {
			return fmt.Errorf("accepted answer %q exceeds max length %d", answer, p.MaxLength)
		}
	}
	return nil
}

func (v *QuestionValidator) validateEssay(p models.EssayPayload) error {
	if p.MinWords < 0 || p.MaxWords < 0 {
		return fmt.Errorf("word limits cannot be negative")
	}
	if p.MaxWords > 0 && p.MinWords > p.MaxWords {
		return fmt.Errorf("min words cannot exceed max words")
	}
	for _, criterion := range p.Rubric {
		if criterion.Criterion == "" {
			return fmt.Errorf("rubric criterion cannot be empty")
		}
	}
	return nil
}

func (v *QuestionValidator) validateMatching(p models.MatchingPayload) error {
	if len(p.LeftItems) == 0 || len(p.RightItems) == 0 {
		return fmt.Errorf("matching needs items on both sides")
	}
	if len(p.CorrectMatches) == 0 {
		return fmt.Errorf("must have at least 1 correct match")
	}
	for left, right := range p.CorrectMatches {
		if left < 0 || left >= len(p.LeftItems) {
			return fmt.Errorf("match source %d out of range", left)
		}
		if right < 0 || right >= len(p.RightItems) {
			return fmt.Errorf("match target %d out of range", right)
		}
	}
	return nil
}

// validatePermutation requires order to use every index below n exactly once.
func validatePermutation(order []int, n int) error {
	if n == 0 {
		return fmt.Errorf("ordering needs at least 1 item")
	}
	if len(order) != n {
		return fmt.Errorf("correct order has %d entries for %d items", len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return fmt.Errorf("correct order is not a permutation of the items")
		}
		seen[idx] = true
	}
	return nil
}

func (v *QuestionValidator) validateDragDrop(p models.DragDropPayload) error {
	if p.IsOrdering() {
		return validatePermutation(p.CorrectOrder, len(p.Items))
	}
	if len(p.Items) == 0 {
		return fmt.Errorf("drag-drop needs at least 1 item")
	}
	if len(p.DropZones) == 0 && len(p.MatchTargets) == 0 {
		return fmt.Errorf("drag-drop needs drop zones, match targets or a correct order")
	}
	zoneIDs := make(map[string]bool, len(p.DropZones))
	for _, zone := range p.DropZones {
		if zone.ID == "" {
			return fmt.Errorf("drop zone id is required")
		}
		if zoneIDs[zone.ID] {
			return fmt.Errorf("duplicate drop zone id %q", zone.ID)
		}
		zoneIDs[zone.ID] = true
	}
	return nil
}

func (v *QuestionValidator) validateMatrix(p models.MatrixPayload) error {
	if len(p.Rows) == 0 || len(p.Columns) == 0 {
		return fmt.Errorf("matrix needs rows and columns")
	}
	for row, column := range p.CorrectAnswers {
		if column < 0 || column >= len(p.Columns) {
			return fmt.Errorf("matrix row %s points at column %d out of range", row, column)
		}
		if !knownRow(row, p.Rows) {
			return fmt.Errorf("matrix answer refers to unknown row %q", row)
		}
	}
	return nil
}

// knownRow accepts a row either by label or by index.
func knownRow(key string, rows []string) bool {
	for _, row := range rows {
		if row == key {
			return true
		}
	}
	idx, err := strconv.Atoi(key)
	return err == nil && idx >= 0 && idx < len(rows)
}

func (v *QuestionValidator) validateReading(p models.ReadingPayload) error {
	if p.Passage == "" {
		return fmt.Errorf("reading passage is required")
	}
	for i := range p.SubQuestions {
		sub := p.SubQuestions[i]
		if _, ok := sub.Payload.(models.ChoicePayload); !ok {
			return fmt.Errorf("sub-question %s must be single choice", sub.ID)
		}
		if err := v.ValidateQuestion(&sub); err != nil {
			return fmt.Errorf("sub-question %s: %w", sub.ID, err)
		}
	}
	return nil
}
