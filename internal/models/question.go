package models

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	SingleChoice         QuestionType = "single-choice"
	MultipleChoice       QuestionType = "multiple-choice"
	TrueFalse            QuestionType = "true-false"
	FillInBlank          QuestionType = "fill-in-blank"
	Matching             QuestionType = "matching"
	Ordering             QuestionType = "ordering"
	ReadingComprehension QuestionType = "reading-comprehension"
	ImageBased           QuestionType = "image-based"
	AudioBased           QuestionType = "audio-based"
	ShortAnswer          QuestionType = "short-answer"
	Essay                QuestionType = "essay"
	DragDrop             QuestionType = "drag-drop"
	Matrix               QuestionType = "matrix"
)

// QuestionTypes lists every supported type tag.
var QuestionTypes = []QuestionType{
	SingleChoice, MultipleChoice, TrueFalse, FillInBlank, Matching, Ordering,
	ReadingComprehension, ImageBased, AudioBased, ShortAnswer, Essay, DragDrop, Matrix,
}

func (t QuestionType) IsValid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Question is a tagged union: Type selects which Payload variant is meaningful.
type Question struct {
	ID          string          `json:"id"`
	Type        QuestionType    `json:"type" validate:"required,question_type"`
	Text        string          `json:"question" validate:"required"`
	Category    string          `json:"category"`
	Difficulty  DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	Points      int             `json:"points" validate:"min=0"`
	Explanation string          `json:"explanation"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	AudioURL    string          `json:"audioUrl,omitempty"`
	Payload     QuestionPayload `json:"-"`
}

// QuestionPayload is implemented only by the payload types of this package.
type QuestionPayload interface {
	questionPayload()
}

// ChoicePayload backs single-choice, image-based and audio-based questions.
type ChoicePayload struct {
	Options       []string
	CorrectAnswer int
}

type MultipleChoicePayload struct {
	Options        []string
	CorrectAnswers []int
}

type TrueFalsePayload struct {
	CorrectAnswer bool
}

// TextAnswerPayload backs fill-in-blank and short-answer questions.
type TextAnswerPayload struct {
	CorrectAnswers []string
	MaxLength      int
}

type RubricCriterion struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
}

type EssayPayload struct {
	MinWords int
	MaxWords int
	Rubric   []RubricCriterion
}

type MatchingPayload struct {
	LeftItems      []string
	RightItems     []string
	CorrectMatches map[int]int
}

type OrderingPayload struct {
	Items        []string
	CorrectOrder []int
}

type DropZone struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	AcceptedItems []string `json:"acceptedItems"`
}

// DragDropPayload is in ordering mode when CorrectOrder is set, otherwise it
// describes a zone or match-target layout.
type DragDropPayload struct {
	Items        []string
	CorrectOrder []int
	DropZones    []DropZone
	MatchTargets []string
}

func (p DragDropPayload) IsOrdering() bool {
	return p.CorrectOrder != nil
}

type MatrixPayload struct {
	Rows           []string
	Columns        []string
	CorrectAnswers map[string]int
	QuestionText   string
}

type ReadingPayload struct {
	Passage      string
	SubQuestions []Question
}

func (ChoicePayload) questionPayload()         {}
func (MultipleChoicePayload) questionPayload() {}
func (TrueFalsePayload) questionPayload()      {}
func (TextAnswerPayload) questionPayload()     {}
func (EssayPayload) questionPayload()          {}
func (MatchingPayload) questionPayload()       {}
func (OrderingPayload) questionPayload()       {}
func (DragDropPayload) questionPayload()       {}
func (MatrixPayload) questionPayload()         {}
func (ReadingPayload) questionPayload()        {}

// HasConsistentPayload reports whether the payload variant is the one the
// type tag requires.
func (q Question) HasConsistentPayload() bool {
	switch q.Payload.(type) {
	case ChoicePayload:
		return q.Type == SingleChoice || q.Type == ImageBased || q.Type == AudioBased
	case MultipleChoicePayload:
		return q.Type == MultipleChoice
	case TrueFalsePayload:
		return q.Type == TrueFalse
	case TextAnswerPayload:
		return q.Type == FillInBlank || q.Type == ShortAnswer
	case EssayPayload:
		return q.Type == Essay
	case MatchingPayload:
		return q.Type == Matching
	case OrderingPayload:
		return q.Type == Ordering
	case DragDropPayload:
		return q.Type == DragDrop
	case MatrixPayload:
		return q.Type == Matrix
	case ReadingPayload:
		return q.Type == ReadingComprehension
	default:
		return false
	}
}

// questionWire is the flat JSON layout shared by every question type.
type questionWire struct {
	ID          string          `json:"id"`
	Type        QuestionType    `json:"type"`
	Text        string          `json:"question"`
	Category    string          `json:"category"`
	Difficulty  DifficultyLevel `json:"difficulty"`
	Points      int             `json:"points"`
	Explanation string          `json:"explanation"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	AudioURL    string          `json:"audioUrl,omitempty"`

	Options        []string          `json:"options,omitempty"`
	CorrectAnswer  json.RawMessage   `json:"correctAnswer,omitempty"`
	CorrectAnswers json.RawMessage   `json:"correctAnswers,omitempty"`
	LeftItems      []string          `json:"leftItems,omitempty"`
	RightItems     []string          `json:"rightItems,omitempty"`
	CorrectMatches map[int]int       `json:"correctMatches,omitempty"`
	Items          []string          `json:"items,omitempty"`
	CorrectOrder   []int             `json:"correctOrder,omitempty"`
	Passage        string            `json:"passage,omitempty"`
	SubQuestions   []Question        `json:"subQuestions,omitempty"`
	MaxLength      int               `json:"maxLength,omitempty"`
	MinWords       int               `json:"minWords,omitempty"`
	MaxWords       int               `json:"maxWords,omitempty"`
	Rubric         []RubricCriterion `json:"rubric,omitempty"`
	DropZones      []DropZone        `json:"dropZones,omitempty"`
	MatchTargets   []string          `json:"matchTargets,omitempty"`
	Rows           []string          `json:"rows,omitempty"`
	Columns        []string          `json:"columns,omitempty"`
	QuestionText   string            `json:"questionText,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID:          q.ID,
		Type:        q.Type,
		Text:        q.Text,
		Category:    q.Category,
		Difficulty:  q.Difficulty,
		Points:      q.Points,
		Explanation: q.Explanation,
		ImageURL:    q.ImageURL,
		AudioURL:    q.AudioURL,
	}

	var err error
	switch p := q.Payload.(type) {
	case ChoicePayload:
		w.Options = p.Options
		w.CorrectAnswer, err = json.Marshal(p.CorrectAnswer)
	case MultipleChoicePayload:
		w.Options = p.Options
		w.CorrectAnswers, err = json.Marshal(nonNilInts(p.CorrectAnswers))
	case TrueFalsePayload:
		w.CorrectAnswer, err = json.Marshal(p.CorrectAnswer)
	case TextAnswerPayload:
		w.CorrectAnswers, err = json.Marshal(nonNilStrings(p.CorrectAnswers))
		w.MaxLength = p.MaxLength
	case EssayPayload:
		w.MinWords, w.MaxWords, w.Rubric = p.MinWords, p.MaxWords, p.Rubric
	case MatchingPayload:
		w.LeftItems, w.RightItems, w.CorrectMatches = p.LeftItems, p.RightItems, p.CorrectMatches
	case OrderingPayload:
		w.Items, w.CorrectOrder = p.Items, p.CorrectOrder
	case DragDropPayload:
		w.Items, w.CorrectOrder = p.Items, p.CorrectOrder
		w.DropZones, w.MatchTargets = p.DropZones, p.MatchTargets
	case MatrixPayload:
		w.Rows, w.Columns, w.QuestionText = p.Rows, p.Columns, p.QuestionText
		w.CorrectAnswers, err = json.Marshal(p.CorrectAnswers)
	case ReadingPayload:
		w.Passage, w.SubQuestions = p.Passage, p.SubQuestions
	case nil:
	default:
		return nil, fmt.Errorf("unsupported payload %T for question %s", q.Payload, q.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for question %s: %w", q.ID, err)
	}

	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	payload, err := decodePayload(&w)
	if err != nil {
		return fmt.Errorf("question %s: %w", w.ID, err)
	}

	*q = Question{
		ID:          w.ID,
		Type:        w.Type,
		Text:        w.Text,
		Category:    w.Category,
		Difficulty:  w.Difficulty,
		Points:      w.Points,
		Explanation: w.Explanation,
		ImageURL:    w.ImageURL,
		AudioURL:    w.AudioURL,
		Payload:     payload,
	}
	return nil
}

func decodePayload(w *questionWire) (QuestionPayload, error) {
	switch w.Type {
	case SingleChoice, ImageBased, AudioBased:
		p := ChoicePayload{Options: w.Options}
		if err := decodeField("correctAnswer", w.CorrectAnswer, &p.CorrectAnswer); err != nil {
			return nil, err
		}
		return p, nil
	case MultipleChoice:
		p := MultipleChoicePayload{Options: w.Options}
		if err := decodeField("correctAnswers", w.CorrectAnswers, &p.CorrectAnswers); err != nil {
			return nil, err
		}
		return p, nil
	case TrueFalse:
		var p TrueFalsePayload
		if err := decodeField("correctAnswer", w.CorrectAnswer, &p.CorrectAnswer); err != nil {
			return nil, err
		}
		return p, nil
	case FillInBlank, ShortAnswer:
		p := TextAnswerPayload{MaxLength: w.MaxLength}
		if err := decodeField("correctAnswers", w.CorrectAnswers, &p.CorrectAnswers); err != nil {
			return nil, err
		}
		return p, nil
	case Essay:
		return EssayPayload{MinWords: w.MinWords, MaxWords: w.MaxWords, Rubric: w.Rubric}, nil
	case Matching:
		return MatchingPayload{LeftItems: w.LeftItems, RightItems: w.RightItems, CorrectMatches: w.CorrectMatches}, nil
	case Ordering:
		return OrderingPayload{Items: w.Items, CorrectOrder: w.CorrectOrder}, nil
	case DragDrop:
		return DragDropPayload{
			Items:        w.Items,
			CorrectOrder: w.CorrectOrder,
			DropZones:    w.DropZones,
			MatchTargets: w.MatchTargets,
		}, nil
	case Matrix:
		p := MatrixPayload{Rows: w.Rows, Columns: w.Columns, QuestionText: w.QuestionText}
		if err := decodeField("correctAnswers", w.CorrectAnswers, &p.CorrectAnswers); err != nil {
			return nil, err
		}
		return p, nil
	case ReadingComprehension:
		return ReadingPayload{Passage: w.Passage, SubQuestions: w.SubQuestions}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", w.Type)
	}
}

func decodeField(name string, raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing %s", name)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
