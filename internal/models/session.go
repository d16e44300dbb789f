package models

import "time"

// SavedSession is a resumable snapshot of an interrupted attempt. At most one
// exists per exam for a user.
type SavedSession struct {
	Exam                 Exam         `json:"exam"`
	Questions            []Question   `json:"questions"`
	CurrentQuestionIndex int          `json:"currentQuestionIndex"`
	UserAnswers          []UserAnswer `json:"userAnswers"`
	StartTime            time.Time    `json:"startTime"`
	TimeRemaining        int          `json:"timeRemaining"`
}

func (s SavedSession) Clone() SavedSession {
	out := s
	out.Questions = append([]Question(nil), s.Questions...)
	out.UserAnswers = CloneAnswers(s.UserAnswers)
	return out
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageJapanese   Language = "jp"
	LanguageVietnamese Language = "vn"
)

type UIPreferences struct {
	Theme       Theme    `json:"theme" validate:"required,theme"`
	Language    Language `json:"language" validate:"required,language"`
	SidebarOpen bool     `json:"sidebarOpen"`
}

func DefaultUIPreferences() UIPreferences {
	return UIPreferences{
		Theme:       ThemeLight,
		Language:    LanguageEnglish,
		SidebarOpen: true,
	}
}
