package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidBundle is returned for export documents and quiz bundles
	// that do not have the expected shape.
	ErrInvalidBundle = errors.New("invalid bundle")

	// ErrInvalidDataset is returned when a dataset is missing its GeoJSON or
	// its id/label property keys.
	ErrInvalidDataset = errors.New("invalid dataset")
)

// FolderKind says which records a folder groups.
type FolderKind string

const (
	FolderKindQuiz    FolderKind = "quiz"
	FolderKindDataset FolderKind = "dataset"
)

// ParseFolderKind converts s to a FolderKind.
func ParseFolderKind(s string) (FolderKind, error) {
	switch FolderKind(s) {
	case FolderKindQuiz, FolderKindDataset:
		return FolderKind(s), nil
	}
	return "", fmt.Errorf("unknown folder kind %q", s)
}

// Folder groups quizzes or datasets. ParentID is empty for top-level folders.
type Folder struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      FolderKind `json:"kind"`
	ParentID  string     `json:"parentId,omitempty"`
	CreatedAt int64      `json:"createdAt"`
	UpdatedAt int64      `json:"updatedAt"`
}

// DatasetRepo manages datasets.
type DatasetRepo interface {
	// Save inserts or replaces ds, assigning an ID when empty.
	Save(ctx context.Context, ds *geo.Dataset) error

	// Get returns the dataset with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*geo.Dataset, error)

	// List returns every dataset, most recently updated first.
	List(ctx context.Context) ([]*geo.Dataset, error)

	// Delete removes the dataset and every quiz built on it.
	Delete(ctx context.Context, id string) error
}

// QuizRepo manages quizzes.
type QuizRepo interface {
	// Save inserts or replaces q, assigning an ID when empty. The dataset
	// it references must exist.
	Save(ctx context.Context, q *quiz.Quiz) error

	// Get returns the quiz with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*quiz.Quiz, error)

	// List returns every quiz, most recently updated first.
	List(ctx context.Context) ([]*quiz.Quiz, error)

	// Delete removes the quiz with id.
	Delete(ctx context.Context, id string) error
}

// FolderRepo manages folders.
type FolderRepo interface {
	// Save inserts or replaces f, assigning an ID when empty.
	Save(ctx context.Context, f *Folder) error

	// Get returns the folder with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Folder, error)

	// List returns folders of kind (all kinds when empty), most recently
	// updated first.
	List(ctx context.Context, kind FolderKind) ([]*Folder, error)

	// Delete removes the folder. Its child folders and the records of its
	// kind move up to the folder's parent.
	Delete(ctx context.Context, id string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	SessionID string // only events of this session ("" = all)
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
}

// PlayAction is the kind of a play event.
type PlayAction string

const (
	PlayStart  PlayAction = "start"
	PlayAnswer PlayAction = "answer"
	PlayEnd    PlayAction = "end"
)

// PlayEventData captures one step of a play session.
type PlayEventData struct {
	SessionID     string
	QuizID        string
	Action        PlayAction
	QuestionIndex int
	Total         int
	TargetID      string
	ChosenID      string
	Correct       bool
	Score         int
}

// PlayEvent is a stored play event.
type PlayEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	PlayEventData
}

// PlaySummary aggregates the events of one play session.
type PlaySummary struct {
	SessionID string
	QuizID    string
	StartedAt time.Time
	EndedAt   time.Time // zero when the session never finished
	Total     int
	Answered  int
	Score     int
}

// Finished reports whether an end event was recorded.
func (p PlaySummary) Finished() bool {
	return !p.EndedAt.IsZero()
}

// EventRepo provides append and query access to play events.
type EventRepo interface {
	// AppendPlayEvent records a play event under the next global sequence.
	AppendPlayEvent(ctx context.Context, data PlayEventData) error

	// QueryPlayEvents returns events in sequence order.
	QueryPlayEvents(ctx context.Context, opts QueryOpts) ([]PlayEvent, error)

	// QueryPlaySummaries returns the most recent sessions first.
	QueryPlaySummaries(ctx context.Context, limit int) ([]PlaySummary, error)
}
