// Package game wires the quiz core to the record store: it loads a quiz
// with its dataset and questions, and records what happens while it is
// played.
package game

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/store"
)

// Round is everything a player surface needs to run one session.
type Round struct {
	Quiz      *quiz.Quiz
	Dataset   *geo.Dataset
	Regions   []geo.Region
	Questions []quiz.Question

	// PoolSize is zero when the quiz cannot produce any question.
	PoolSize int

	// Centers locates regions for renderers without a real map.
	Centers map[string]geo.Point

	byID map[string]geo.Region
}

// Label returns the display label of a region, falling back to its ID.
func (r *Round) Label(id string) string {
	if reg, ok := r.byID[id]; ok && reg.Label != "" {
		return reg.Label
	}
	return id
}

// Image returns the image shown for a region in image quizzes. The quiz's
// image map wins over the dataset's flags.
func (r *Round) Image(id string) string {
	if u := r.Quiz.ImageMap[id]; u != "" {
		return u
	}
	return r.Dataset.Flags[id]
}

// Loader builds rounds from stored quizzes. It is safe for concurrent use.
type Loader struct {
	quizzes  store.QuizRepo
	datasets store.DatasetRepo
	locale   language.Tag

	mu  sync.Mutex
	gen *quiz.Generator
}

// NewLoader creates a Loader. A nil generator gets a randomly seeded one.
func NewLoader(quizzes store.QuizRepo, datasets store.DatasetRepo, locale language.Tag, gen *quiz.Generator) *Loader {
	if gen == nil {
		gen = quiz.NewGenerator(nil)
	}
	return &Loader{quizzes: quizzes, datasets: datasets, locale: locale, gen: gen}
}

// Load fetches the quiz and its dataset and generates a fresh question list.
func (l *Loader) Load(ctx context.Context, quizID string) (*Round, error) {
	q, err := l.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	ds, err := l.datasets.Get(ctx, q.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	regions := geo.ExtractRegions(ds, l.locale)

	l.mu.Lock()
	res := l.gen.Generate(regions, *q)
	l.mu.Unlock()

	return &Round{
		Quiz:      q,
		Dataset:   ds,
		Regions:   regions,
		Questions: res.Questions,
		PoolSize:  res.PoolSize,
		Centers:   geo.RegionCenters(ds),
		byID:      geo.IndexByID(regions),
	}, nil
}

// Reshuffle generates a new question list for the same quiz and dataset.
func (l *Loader) Reshuffle(r *Round) {
	l.mu.Lock()
	res := l.gen.Generate(r.Regions, *r.Quiz)
	l.mu.Unlock()
	r.Questions = res.Questions
	r.PoolSize = res.PoolSize
}

// Locale is the collation locale used for region labels.
func (l *Loader) Locale() language.Tag {
	return l.locale
}
