package play

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/language"

	"github.com/abhisek/geoquiz/internal/game"
	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screens/summary"
	sess "github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/layout"
)

// --- Mock repos ---

type mockQuizRepo struct {
	quizzes map[string]*quiz.Quiz
}

func (m *mockQuizRepo) Save(_ context.Context, q *quiz.Quiz) error {
	m.quizzes[q.ID] = q
	return nil
}
func (m *mockQuizRepo) Get(_ context.Context, id string) (*quiz.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", id, store.ErrNotFound)
	}
	return q, nil
}
func (m *mockQuizRepo) List(_ context.Context) ([]*quiz.Quiz, error) { return nil, nil }
func (m *mockQuizRepo) Delete(_ context.Context, _ string) error     { return nil }

type mockDatasetRepo struct {
	ds *geo.Dataset
}

func (m *mockDatasetRepo) Save(_ context.Context, _ *geo.Dataset) error { return nil }
func (m *mockDatasetRepo) Get(_ context.Context, id string) (*geo.Dataset, error) {
	if m.ds == nil || m.ds.ID != id {
		return nil, fmt.Errorf("dataset %s: %w", id, store.ErrNotFound)
	}
	return m.ds, nil
}
func (m *mockDatasetRepo) List(_ context.Context) ([]*geo.Dataset, error) { return nil, nil }
func (m *mockDatasetRepo) Delete(_ context.Context, _ string) error       { return nil }

type mockEventRepo struct {
	events []store.PlayEventData
}

func (m *mockEventRepo) AppendPlayEvent(_ context.Context, data store.PlayEventData) error {
	m.events = append(m.events, data)
	return nil
}
func (m *mockEventRepo) QueryPlayEvents(_ context.Context, _ store.QueryOpts) ([]store.PlayEvent, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryPlaySummaries(_ context.Context, _ int) ([]store.PlaySummary, error) {
	return nil, nil
}

func (m *mockEventRepo) actions() []store.PlayAction {
	out := make([]store.PlayAction, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

// --- Helpers ---

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *PlayScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func pointFeature(id, name string, lon, lat float64) geo.Feature {
	return geo.Feature{
		Type:       "Feature",
		Properties: map[string]any{"id": id, "name": name},
		Geometry:   json.RawMessage(fmt.Sprintf(`{"type":"Point","coordinates":[%g,%g]}`, lon, lat)),
	}
}

func testDataset() *geo.Dataset {
	return &geo.Dataset{
		ID:       "ds",
		Name:     "Test",
		IDKey:    "id",
		LabelKey: "name",
		GeoJSON: geo.FeatureCollection{Type: "FeatureCollection", Features: []geo.Feature{
			pointFeature("a", "Alpha", 0, 0),
			pointFeature("b", "Bravo", 10, 5),
			pointFeature("c", "Charlie", 20, 10),
		}},
	}
}

func testScreen(t *testing.T, q *quiz.Quiz) (*PlayScreen, *mockEventRepo) {
	t.Helper()
	quizzes := &mockQuizRepo{quizzes: map[string]*quiz.Quiz{q.ID: q}}
	datasets := &mockDatasetRepo{ds: testDataset()}
	events := &mockEventRepo{}
	loader := game.NewLoader(quizzes, datasets, language.English, quiz.NewGenerator(rand.New(rand.NewPCG(7, 9))))

	s := New(Deps{Loader: loader, Events: events}, q.ID)
	return s, events
}

func loaded(t *testing.T, q *quiz.Quiz) (*PlayScreen, *mockEventRepo) {
	t.Helper()
	s, events := testScreen(t, q)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected Init to return a load command")
	}
	s.Update(cmd())
	return s, events
}

func mapClickQuiz() *quiz.Quiz {
	return &quiz.Quiz{ID: "q1", Name: "Letters", DatasetID: "ds", Type: quiz.TypeMapClick, Settings: quiz.DefaultSettings()}
}

func mcQuiz() *quiz.Quiz {
	return &quiz.Quiz{ID: "q2", Name: "Letters MC", DatasetID: "ds", Type: quiz.TypeMultipleChoice, Settings: quiz.DefaultSettings()}
}

func currentTarget(t *testing.T, s *PlayScreen) string {
	t.Helper()
	q, ok := s.state.Current()
	if !ok {
		t.Fatal("session is done")
	}
	return q.Target()
}

// pickRegion filters the region list down to label and presses Enter.
func pickRegion(s *PlayScreen, label string) tea.Cmd {
	typeText(s, label)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	return cmd
}

// --- Tests ---

func TestPlayScreen_Load(t *testing.T) {
	s, events := loaded(t, mapClickQuiz())

	if s.state == nil {
		t.Fatal("expected session after load")
	}
	if len(s.state.Questions) != 3 {
		t.Errorf("expected one question per region, got %d", len(s.state.Questions))
	}
	if s.Title() != "Letters" {
		t.Errorf("Title = %q, want Letters", s.Title())
	}
	if len(events.events) != 1 || events.events[0].Action != store.PlayStart {
		t.Errorf("expected a start event, got %v", events.actions())
	}
	if !strings.Contains(s.View(100, 30), "Find:") {
		t.Error("expected map-click prompt in view")
	}
}

func TestPlayScreen_LoadingView(t *testing.T) {
	s, _ := testScreen(t, mapClickQuiz())
	if !strings.Contains(s.View(100, 30), "Loading quiz") {
		t.Error("expected loading text before the round arrives")
	}
}

func TestPlayScreen_MapClickCorrectThenAutoAdvance(t *testing.T) {
	s, events := loaded(t, mapClickQuiz())

	target := currentTarget(t, s)
	cmd := pickRegion(s, s.round.Label(target))
	if cmd == nil {
		t.Fatal("expected auto-advance tick after answering")
	}
	if s.state.Answer.Status != sess.AnswerCorrect {
		t.Fatalf("Answer = %v, want correct", s.state.Answer.Status)
	}
	if s.state.Score != 1 {
		t.Errorf("Score = %d, want 1", s.state.Score)
	}

	s.Update(autoAdvanceMsg{Ticket: s.pending})
	if s.state.Index != 1 {
		t.Errorf("Index = %d, want 1 after auto-advance", s.state.Index)
	}
	if s.regions.Filter.Value() != "" {
		t.Error("expected filter cleared on the next question")
	}
	if got := events.actions(); len(got) != 2 || got[1] != store.PlayAnswer {
		t.Errorf("events = %v", got)
	}
}

func TestPlayScreen_WrongAnswer(t *testing.T) {
	s, events := loaded(t, mapClickQuiz())

	target := currentTarget(t, s)
	wrong := "a"
	if target == "a" {
		wrong = "b"
	}
	pickRegion(s, s.round.Label(wrong))

	if s.state.Answer.Status != sess.AnswerWrong {
		t.Fatalf("Answer = %v, want wrong", s.state.Answer.Status)
	}
	if s.state.Score != 0 {
		t.Errorf("Score = %d, want 0", s.state.Score)
	}
	last := events.events[len(events.events)-1]
	if last.ChosenID != wrong || last.TargetID != target || last.Correct {
		t.Errorf("unexpected answer event: %+v", last)
	}
	if !strings.Contains(s.View(100, 30), "The answer is") {
		t.Error("expected wrong-answer feedback in view")
	}
}

func TestPlayScreen_InputDisabledWhileAnswered(t *testing.T) {
	s, _ := loaded(t, mapClickQuiz())

	pickRegion(s, s.round.Label(currentTarget(t, s)))
	filter := s.regions.Filter.Value()

	typeText(s, "zz")
	if s.regions.Filter.Value() != filter {
		t.Error("filter should not change while answered")
	}
	if s.state.Score != 1 {
		t.Error("second pick should be ignored")
	}
}

func TestPlayScreen_EnterAdvancesAndStaleTickIgnored(t *testing.T) {
	s, _ := loaded(t, mapClickQuiz())

	pickRegion(s, s.round.Label(currentTarget(t, s)))
	stale := s.pending

	s.Update(specialKey(tea.KeyEnter))
	if s.state.Index != 1 {
		t.Fatalf("Index = %d, want 1 after Enter", s.state.Index)
	}

	s.Update(autoAdvanceMsg{Ticket: stale})
	if s.state.Index != 1 {
		t.Errorf("stale tick advanced the session to %d", s.state.Index)
	}
}

func TestPlayScreen_CompletionShowsSummary(t *testing.T) {
	s, events := loaded(t, mapClickQuiz())

	var cmd tea.Cmd
	for !s.state.Done() {
		pickRegion(s, s.round.Label(currentTarget(t, s)))
		_, cmd = s.Update(specialKey(tea.KeyEnter))
	}

	if cmd == nil {
		t.Fatal("expected navigation command on completion")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	got := events.actions()
	if got[len(got)-1] != store.PlayEnd {
		t.Errorf("expected end event last, got %v", got)
	}
	if last := events.events[len(events.events)-1]; last.Score != 3 {
		t.Errorf("end score = %d, want 3", last.Score)
	}
}

func TestPlayScreen_MultipleChoiceDigits(t *testing.T) {
	s, _ := loaded(t, mcQuiz())

	q, _ := s.state.Current()
	mc, ok := q.(quiz.MultipleChoice)
	if !ok {
		t.Fatalf("expected multiple-choice question, got %T", q)
	}

	// Enter does nothing while idle.
	s.Update(specialKey(tea.KeyEnter))
	if s.state.Phase() != sess.PhaseIdle {
		t.Fatal("Enter should not answer a multiple-choice question")
	}

	// Out-of-range digits are ignored.
	s.Update(keyPress('9'))
	if s.state.Phase() != sess.PhaseIdle {
		t.Fatal("digit beyond the options should be ignored")
	}

	_, cmd := s.Update(keyPress('1'))
	if cmd == nil {
		t.Fatal("expected auto-advance tick")
	}
	if s.state.Answer.ChosenID != mc.Options[0] {
		t.Errorf("ChosenID = %q, want %q", s.state.Answer.ChosenID, mc.Options[0])
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "1)  ") {
		t.Error("expected numbered options in view")
	}
}

func TestPlayScreen_Restart(t *testing.T) {
	s, events := loaded(t, mapClickQuiz())

	pickRegion(s, s.round.Label(currentTarget(t, s)))
	s.Update(specialKey(tea.KeyEnter))
	stale := s.pending

	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})

	if s.state.Index != 0 || s.state.Score != 0 || s.state.Phase() != sess.PhaseIdle {
		t.Errorf("restart did not reset: index=%d score=%d phase=%v", s.state.Index, s.state.Score, s.state.Phase())
	}
	s.Update(autoAdvanceMsg{Ticket: stale})
	if s.state.Index != 0 {
		t.Error("tick from before the restart should be ignored")
	}

	starts := 0
	for _, a := range events.actions() {
		if a == store.PlayStart {
			starts++
		}
	}
	if starts != 2 {
		t.Errorf("expected 2 start events, got %d", starts)
	}
}

func TestPlayScreen_EmptyPool(t *testing.T) {
	q := &quiz.Quiz{ID: "q3", Name: "Flags", DatasetID: "ds", Type: quiz.TypeImage, Settings: quiz.DefaultSettings()}
	s, events := loaded(t, q)

	if s.state != nil {
		t.Error("no session should start without questions")
	}
	if !strings.Contains(s.View(100, 30), "Cannot generate questions") {
		t.Error("expected cannot-generate message")
	}
	if len(events.events) != 0 {
		t.Errorf("expected no events, got %v", events.actions())
	}

	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("expected any key to go back")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestPlayScreen_NotFound(t *testing.T) {
	s, _ := testScreen(t, mapClickQuiz())
	s.quizID = "missing"
	s.Update(s.Init()())

	if s.errMsg == "" {
		t.Fatal("expected error message")
	}
	if !strings.Contains(s.View(100, 30), "Quiz not found") {
		t.Error("expected not-found text in view")
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestPlayScreen_StatusAndHints(t *testing.T) {
	s, _ := loaded(t, mapClickQuiz())

	if got := s.Status(); got != "★ 0   Q 1/3" {
		t.Errorf("Status = %q", got)
	}
	if hints := s.KeyHints(); hints[0].Key != "↑↓" {
		t.Errorf("expected map-click hints, got %+v", hints)
	}

	pickRegion(s, s.round.Label(currentTarget(t, s)))
	if hints := s.KeyHints(); hints[0].Key != "Enter" {
		t.Errorf("expected Enter hint once answered, got %+v", hints)
	}
}

func TestPlayScreen_Notice(t *testing.T) {
	s, _ := loaded(t, mapClickQuiz())

	if got := s.Notice(); got.Text != "3 of 3 regions" || got.Tone != layout.ToneNeutral {
		t.Errorf("idle notice = %+v", got)
	}
	typeText(s, "Alp")
	if got := s.Notice().Text; got != "1 of 3 regions" {
		t.Errorf("filtered notice = %q", got)
	}
	s.regions.ClearFilter()

	pickRegion(s, s.round.Label(currentTarget(t, s)))
	if got := s.Notice(); got.Text != "Correct, next in 1.4s" || got.Tone != layout.ToneGood {
		t.Errorf("answered notice = %+v", got)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "MAP") || !strings.Contains(view, "1 correct") {
		t.Errorf("expected titled map card with legend, got:\n%s", view)
	}
}

func TestPlayScreen_NoticeWrongAndMultipleChoice(t *testing.T) {
	s, _ := loaded(t, mcQuiz())
	if got := s.Notice(); got.Tone != layout.ToneInfo {
		t.Errorf("multiple-choice notice = %+v", got)
	}

	target := currentTarget(t, s)
	wrong := "a"
	if target == "a" {
		wrong = "b"
	}
	s.deps.AutoAdvanceDelay = 500 * time.Millisecond
	s.submit(wrong)
	if got := s.Notice(); got.Text != "Wrong, next in 0.5s" || got.Tone != layout.ToneBad {
		t.Errorf("wrong notice = %+v", got)
	}
}
