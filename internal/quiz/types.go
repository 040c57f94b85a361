package quiz

import (
	"fmt"
	"time"
)

// Type selects how a quiz asks its questions.
type Type string

const (
	// TypeMapClick asks the player to find a named region.
	TypeMapClick Type = "map-click"

	// TypeMultipleChoice highlights a region and asks for its name.
	TypeMultipleChoice Type = "multiple-choice"

	// TypeImage shows a picture and asks the player to find its region.
	TypeImage Type = "image"

	// TypeFlagMC shows a flag and asks the player to find its region.
	TypeFlagMC Type = "flag-mc"
)

// Types lists every quiz type in display order.
var Types = []Type{TypeMapClick, TypeMultipleChoice, TypeImage, TypeFlagMC}

// ParseType converts s to a Type.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown quiz type %q", s)
}

// RequiresImages reports whether every target must have an image.
func (t Type) RequiresImages() bool {
	return t == TypeImage || t == TypeFlagMC
}

// DefaultOptionsCount is used when a quiz does not configure OptionsCount.
const DefaultOptionsCount = 4

// Settings configures a quiz. The generator and session never mutate it.
type Settings struct {
	QuestionCount int  `json:"questionCount"`
	OptionsCount  int  `json:"optionsCount"`
	AllowRepeat   bool `json:"allowRepeat"`
	RevealAnswer  bool `json:"revealAnswer"`

	// EasyMode keeps resolved regions highlighted for the rest of the session.
	EasyMode bool `json:"easyMode,omitempty"`
}

// DefaultSettings returns the settings new quizzes start with.
func DefaultSettings() Settings {
	return Settings{
		QuestionCount: 10,
		OptionsCount:  DefaultOptionsCount,
		RevealAnswer:  true,
	}
}

// Quiz binds a dataset to a question type and settings.
type Quiz struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	DatasetID string `json:"datasetId"`
	FolderID  string `json:"folderId,omitempty"`
	Type      Type   `json:"type"`

	// ImageMap maps region ID to a public image URL.
	ImageMap map[string]string `json:"imageMap,omitempty"`

	Settings Settings `json:"settings"`

	// Pool optionally lists region IDs chosen by the quiz author.
	Pool []string `json:"pool,omitempty"`
}

// Touch sets UpdatedAt (and CreatedAt when unset) to now, in Unix milliseconds.
func (q *Quiz) Touch(now time.Time) {
	ms := now.UnixMilli()
	if q.CreatedAt == 0 {
		q.CreatedAt = ms
	}
	q.UpdatedAt = ms
}
