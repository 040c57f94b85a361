package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"golang.org/x/text/language"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/store"
)

type mockQuizRepo struct {
	quizzes map[string]*quiz.Quiz
}

func (m *mockQuizRepo) Save(ctx context.Context, q *quiz.Quiz) error {
	m.quizzes[q.ID] = q
	return nil
}

func (m *mockQuizRepo) Get(ctx context.Context, id string) (*quiz.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", id, store.ErrNotFound)
	}
	return q, nil
}

func (m *mockQuizRepo) List(ctx context.Context) ([]*quiz.Quiz, error) { return nil, nil }
func (m *mockQuizRepo) Delete(ctx context.Context, id string) error    { return nil }

type mockDatasetRepo struct {
	datasets map[string]*geo.Dataset
}

func (m *mockDatasetRepo) Save(ctx context.Context, ds *geo.Dataset) error { return nil }

func (m *mockDatasetRepo) Get(ctx context.Context, id string) (*geo.Dataset, error) {
	ds, ok := m.datasets[id]
	if !ok {
		return nil, fmt.Errorf("dataset %s: %w", id, store.ErrNotFound)
	}
	return ds, nil
}

func (m *mockDatasetRepo) List(ctx context.Context) ([]*geo.Dataset, error) { return nil, nil }
func (m *mockDatasetRepo) Delete(ctx context.Context, id string) error      { return nil }

type mockEventRepo struct {
	events []store.PlayEventData
	err    error
}

func (m *mockEventRepo) AppendPlayEvent(ctx context.Context, data store.PlayEventData) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, data)
	return nil
}

func (m *mockEventRepo) QueryPlayEvents(ctx context.Context, opts store.QueryOpts) ([]store.PlayEvent, error) {
	return nil, nil
}

func (m *mockEventRepo) QueryPlaySummaries(ctx context.Context, limit int) ([]store.PlaySummary, error) {
	return nil, nil
}

func newTestLoader(t *testing.T, q *quiz.Quiz) *Loader {
	t.Helper()
	ds := &geo.Dataset{
		ID:       "ds",
		IDKey:    "id",
		LabelKey: "name",
		GeoJSON: geo.FeatureCollection{Type: "FeatureCollection", Features: []geo.Feature{
			{Type: "Feature", Properties: map[string]any{"id": "a", "name": "Alpha"}},
			{Type: "Feature", Properties: map[string]any{"id": "b", "name": "Bravo"}},
			{Type: "Feature", Properties: map[string]any{"id": "c", "name": ""}},
		}},
		Flags: map[string]string{"a": "flag-a.png"},
	}
	quizzes := &mockQuizRepo{quizzes: map[string]*quiz.Quiz{q.ID: q}}
	datasets := &mockDatasetRepo{datasets: map[string]*geo.Dataset{ds.ID: ds}}
	gen := quiz.NewGenerator(rand.New(rand.NewPCG(1, 2)))
	return NewLoader(quizzes, datasets, language.English, gen)
}

func TestLoader_Load(t *testing.T) {
	q := &quiz.Quiz{ID: "q1", DatasetID: "ds", Type: quiz.TypeMapClick, Settings: quiz.DefaultSettings()}
	l := newTestLoader(t, q)

	r, err := l.Load(context.Background(), "q1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.PoolSize != 3 || len(r.Questions) != 3 {
		t.Errorf("PoolSize=%d questions=%d, want 3/3", r.PoolSize, len(r.Questions))
	}
	if got := r.Label("a"); got != "Alpha" {
		t.Errorf("Label(a) = %q", got)
	}
	if got := r.Label("c"); got != "c" {
		t.Errorf("Label(c) = %q, want ID fallback", got)
	}
	if got := r.Label("zzz"); got != "zzz" {
		t.Errorf("Label(zzz) = %q, want ID fallback", got)
	}
}

func TestLoader_ImageQuizPool(t *testing.T) {
	q := &quiz.Quiz{
		ID: "q1", DatasetID: "ds", Type: quiz.TypeImage,
		ImageMap: map[string]string{"b": "b.jpg"},
	}
	l := newTestLoader(t, q)

	r, err := l.Load(context.Background(), "q1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.PoolSize != 1 || r.Questions[0].Target() != "b" {
		t.Errorf("PoolSize=%d questions=%v", r.PoolSize, r.Questions)
	}
	if got := r.Image("b"); got != "b.jpg" {
		t.Errorf("Image(b) = %q", got)
	}
	if got := r.Image("a"); got != "flag-a.png" {
		t.Errorf("Image(a) = %q, want dataset flag", got)
	}
}

func TestLoader_NotFound(t *testing.T) {
	l := newTestLoader(t, &quiz.Quiz{ID: "q1", DatasetID: "missing", Type: quiz.TypeMapClick})

	if _, err := l.Load(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing quiz err = %v", err)
	}
	if _, err := l.Load(context.Background(), "q1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing dataset err = %v", err)
	}
}

func TestLoader_Reshuffle(t *testing.T) {
	q := &quiz.Quiz{ID: "q1", DatasetID: "ds", Type: quiz.TypeMapClick}
	l := newTestLoader(t, q)
	r, err := l.Load(context.Background(), "q1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	l.Reshuffle(r)
	if len(r.Questions) != 3 {
		t.Errorf("questions after reshuffle = %d", len(r.Questions))
	}
}

func TestRecorder_Lifecycle(t *testing.T) {
	events := &mockEventRepo{}
	rec := NewRecorder(events, nil)
	ctx := context.Background()

	s := session.New("q1", []quiz.Question{quiz.MapClick{TargetID: "a"}, quiz.MapClick{TargetID: "b"}}, false)
	rec.Start(ctx, s)
	first := rec.SessionID()

	s.Submit("a")
	rec.Answer(ctx, s)
	s.Advance()
	rec.Advanced(ctx, s)
	s.Submit("x")
	rec.Answer(ctx, s)
	s.Advance()
	rec.Advanced(ctx, s)
	rec.Advanced(ctx, s)

	want := []store.PlayAction{store.PlayStart, store.PlayAnswer, store.PlayAnswer, store.PlayEnd}
	if len(events.events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events.events), len(want), events.events)
	}
	for i, a := range want {
		if events.events[i].Action != a {
			t.Errorf("event %d action = %s, want %s", i, events.events[i].Action, a)
		}
		if events.events[i].SessionID != first {
			t.Errorf("event %d session = %s, want %s", i, events.events[i].SessionID, first)
		}
	}
	if !events.events[1].Correct || events.events[2].Correct {
		t.Errorf("correct flags = %v/%v", events.events[1].Correct, events.events[2].Correct)
	}
	if events.events[3].Score != 1 {
		t.Errorf("end score = %d, want 1", events.events[3].Score)
	}

	s.Reset("q1", []quiz.Question{quiz.MapClick{TargetID: "a"}})
	rec.Start(ctx, s)
	if rec.SessionID() == first {
		t.Error("restart should get a new session id")
	}
}

func TestRecorder_StoreFailureDoesNotPanic(t *testing.T) {
	rec := NewRecorder(&mockEventRepo{err: errors.New("disk full")}, nil)
	s := session.New("q1", []quiz.Question{quiz.MapClick{TargetID: "a"}}, false)
	rec.Start(context.Background(), s)

	noop := NewRecorder(nil, nil)
	noop.Start(context.Background(), s)
}
