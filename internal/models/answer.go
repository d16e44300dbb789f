package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// AnswerValue is the closed set of shapes a submitted answer can take.
type AnswerValue interface {
	answerValue()
}

// IndexAnswer answers single-choice, image-based and audio-based questions.
type IndexAnswer int

// IndexListAnswer answers multiple-choice, ordering and drag-drop ordering.
type IndexListAnswer []int

type BoolAnswer bool

// TextAnswer answers fill-in-blank, short-answer and essay questions.
type TextAnswer string

// TextListAnswer is a drag-drop ordering expressed as item labels.
type TextListAnswer []string

// KeyedAnswer answers matching, matrix and reading-comprehension questions.
type KeyedAnswer map[string]int

// ZoneAnswer maps a drop zone id to the items placed in it.
type ZoneAnswer map[string][]string

func (IndexAnswer) answerValue()     {}
func (IndexListAnswer) answerValue() {}
func (BoolAnswer) answerValue()      {}
func (TextAnswer) answerValue()      {}
func (TextListAnswer) answerValue()  {}
func (KeyedAnswer) answerValue()     {}
func (ZoneAnswer) answerValue()      {}

var ErrUnsupportedAnswer = errors.New("unsupported answer shape")

// DecodeAnswerValue infers the answer variant from its JSON form. A JSON null
// decodes to a nil AnswerValue.
func DecodeAnswerValue(raw json.RawMessage) (AnswerValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return BoolAnswer(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return TextAnswer(s), nil
	case '[':
		return decodeList(raw)
	case '{':
		return decodeObject(raw)
	default:
		n, err := decodeInt(raw)
		if err != nil {
			return nil, err
		}
		return IndexAnswer(n), nil
	}
}

func decodeList(raw json.RawMessage) (AnswerValue, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return IndexListAnswer{}, nil
	}

	if bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte(`"`)) {
		var labels []string
		if err := json.Unmarshal(raw, &labels); err != nil {
			return nil, fmt.Errorf("%w: mixed list", ErrUnsupportedAnswer)
		}
		return TextListAnswer(labels), nil
	}

	indices := make(IndexListAnswer, 0, len(elems))
	for _, elem := range elems {
		n, err := decodeInt(elem)
		if err != nil {
			return nil, err
		}
		indices = append(indices, n)
	}
	return indices, nil
}

func decodeObject(raw json.RawMessage) (AnswerValue, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return KeyedAnswer{}, nil
	}

	var arrays, numbers int
	for _, v := range fields {
		if bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) {
			arrays++
		} else {
			numbers++
		}
	}

	switch {
	case arrays == len(fields):
		var zones map[string][]string
		if err := json.Unmarshal(raw, &zones); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedAnswer, err)
		}
		return ZoneAnswer(zones), nil
	case numbers == len(fields):
		keyed := make(KeyedAnswer, len(fields))
		for k, v := range fields {
			n, err := decodeInt(v)
			if err != nil {
				return nil, err
			}
			keyed[k] = n
		}
		return keyed, nil
	default:
		return nil, fmt.Errorf("%w: mixed object", ErrUnsupportedAnswer)
	}
}

func decodeInt(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAnswer, string(raw))
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: non-integral number %s", ErrUnsupportedAnswer, string(raw))
	}
	return int(f), nil
}

// UserAnswer is one committed answer. IsCorrect stays nil until the answer
// is committed through a save point.
type UserAnswer struct {
	QuestionID string      `json:"questionId"`
	Answer     AnswerValue `json:"answer"`
	TimeSpent  int         `json:"timeSpent"`
	IsCorrect  *bool       `json:"isCorrect,omitempty"`
}

func (a *UserAnswer) UnmarshalJSON(data []byte) error {
	var wire struct {
		QuestionID string          `json:"questionId"`
		Answer     json.RawMessage `json:"answer"`
		TimeSpent  int             `json:"timeSpent"`
		IsCorrect  *bool           `json:"isCorrect,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	value, err := DecodeAnswerValue(wire.Answer)
	if err != nil {
		return fmt.Errorf("answer for question %s: %w", wire.QuestionID, err)
	}

	*a = UserAnswer{
		QuestionID: wire.QuestionID,
		Answer:     value,
		TimeSpent:  wire.TimeSpent,
		IsCorrect:  wire.IsCorrect,
	}
	return nil
}

// CloneAnswers returns a copy of answers that shares no slices or maps with
// the input.
func CloneAnswers(answers []UserAnswer) []UserAnswer {
	if answers == nil {
		return nil
	}
	out := make([]UserAnswer, len(answers))
	for i, a := range answers {
		out[i] = a
		out[i].Answer = CloneAnswerValue(a.Answer)
		if a.IsCorrect != nil {
			v := *a.IsCorrect
			out[i].IsCorrect = &v
		}
	}
	return out
}

func CloneAnswerValue(v AnswerValue) AnswerValue {
	switch a := v.(type) {
	case IndexListAnswer:
		return append(IndexListAnswer{}, a...)
	case TextListAnswer:
		return append(TextListAnswer{}, a...)
	case KeyedAnswer:
		out := make(KeyedAnswer, len(a))
		for k, n := range a {
			out[k] = n
		}
		return out
	case ZoneAnswer:
		out := make(ZoneAnswer, len(a))
		for k, items := range a {
			out[k] = append([]string{}, items...)
		}
		return out
	default:
		return v
	}
}
