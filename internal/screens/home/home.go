package home

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geoquiz/internal/geo"
	"github.com/abhisek/geoquiz/internal/quiz"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/screens/history"
	"github.com/abhisek/geoquiz/internal/screens/play"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/components"
	"github.com/abhisek/geoquiz/internal/ui/layout"
	"github.com/abhisek/geoquiz/internal/ui/theme"
)

// quizEntry is one row of the quiz menu.
type quizEntry struct {
	ID      string
	Name    string
	Type    quiz.Type
	Regions int
}

type libraryLoadedMsg struct {
	Quizzes  []quizEntry
	Datasets int
	Plays    int
	Err      error
}

// HomeScreen lists the stored quizzes and opens the play screen.
type HomeScreen struct {
	quizzes  store.QuizRepo
	datasets store.DatasetRepo
	deps     play.Deps

	menu    components.Menu
	entries []quizEntry
	dsCount int
	plays   int
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(quizzes store.QuizRepo, datasets store.DatasetRepo, deps play.Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &HomeScreen{quizzes: quizzes, datasets: datasets, deps: deps}
}

// Init reloads the library so the list is fresh whenever home is shown.
func (h *HomeScreen) Init() tea.Cmd {
	quizzes, datasets, deps := h.quizzes, h.datasets, h.deps
	return func() tea.Msg {
		return loadLibrary(context.Background(), quizzes, datasets, deps)
	}
}

func loadLibrary(ctx context.Context, quizzes store.QuizRepo, datasets store.DatasetRepo, deps play.Deps) libraryLoadedMsg {
	qs, err := quizzes.List(ctx)
	if err != nil {
		return libraryLoadedMsg{Err: err}
	}
	dss, err := datasets.List(ctx)
	if err != nil {
		return libraryLoadedMsg{Err: err}
	}

	locale := geo.DefaultLocale()
	if deps.Loader != nil {
		locale = deps.Loader.Locale()
	}
	regionCount := make(map[string]int, len(dss))
	for _, ds := range dss {
		regionCount[ds.ID] = len(geo.ExtractRegions(ds, locale))
	}

	entries := make([]quizEntry, 0, len(qs))
	for _, q := range qs {
		entries = append(entries, quizEntry{
			ID:      q.ID,
			Name:    q.Name,
			Type:    q.Type,
			Regions: regionCount[q.DatasetID],
		})
	}

	var plays int
	if deps.Events != nil {
		if sums, err := deps.Events.QueryPlaySummaries(ctx, 0); err == nil {
			plays = len(sums)
		} else {
			deps.Logger.Warn("count plays failed", "error", err)
		}
	}

	return libraryLoadedMsg{Quizzes: entries, Datasets: len(dss), Plays: plays}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if len(h.entries) > 0 {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Enter", Description: "Play"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "H", Description: "History"},
		layout.KeyHint{Key: "Q", Description: "Quit"},
	)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case libraryLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.entries = msg.Quizzes
		h.dsCount = msg.Datasets
		h.plays = msg.Plays
		h.menu = components.NewMenu(h.menuItems())
		return h, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "h":
			events := h.deps.Events
			return h, func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(events, h.quizName)}
			}
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.entries))
	for _, e := range h.entries {
		deps, id := h.deps, e.ID
		items = append(items, components.MenuItem{
			Label:       e.Name,
			Description: fmt.Sprintf("%s · %d regions", e.Type, e.Regions),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: play.New(deps, id)}
				}
			},
		})
	}
	return items
}

// quizName resolves a quiz ID for the history screen.
func (h *HomeScreen) quizName(id string) string {
	for _, e := range h.entries {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height)

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	switch {
	case h.errMsg != "":
		sections = append(sections, theme.Incorrect.Render("Error: "+h.errMsg))
	case !h.loaded:
		sections = append(sections, theme.Hint.Render("Loading quizzes..."))
	default:
		sections = append(sections,
			renderStatsBar(len(h.entries), h.dsCount, h.plays, cw, compact),
			renderQuizMenu(h.menu, cw),
		)
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}
