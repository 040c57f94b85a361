package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/language"

	"github.com/abhisek/geoquiz/internal/game"
	"github.com/abhisek/geoquiz/internal/router"
	"github.com/abhisek/geoquiz/internal/screen"
	"github.com/abhisek/geoquiz/internal/screens/home"
	"github.com/abhisek/geoquiz/internal/screens/play"
	"github.com/abhisek/geoquiz/internal/screens/welcome"
	"github.com/abhisek/geoquiz/internal/store"
	"github.com/abhisek/geoquiz/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Store  *store.Store
	Logger *slog.Logger
	Locale language.Tag

	// InitialQuizID opens the play screen for this quiz on top of home.
	InitialQuizID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	initial tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel. The welcome splash leads to home
// unless a quiz is opened directly, in which case play sits on top of home.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	deps := play.Deps{
		Loader: game.NewLoader(opts.Store.QuizRepo(), opts.Store.DatasetRepo(), opts.Locale, nil),
		Events: opts.Store.EventRepo(),
		Logger: opts.Logger,
	}

	newHome := func() screen.Screen {
		return home.New(opts.Store.QuizRepo(), opts.Store.DatasetRepo(), deps)
	}

	if opts.InitialQuizID == "" {
		splash := welcome.New(newHome)
		return AppModel{router: router.New(splash), initial: splash.Init()}
	}

	homeScreen := newHome()
	r := router.New(homeScreen)
	initial := tea.Batch(homeScreen.Init(), r.Push(play.New(deps, opts.InitialQuizID)))
	return AppModel{router: r, initial: initial}
}

func (m AppModel) Init() tea.Cmd {
	return m.initial
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok {
				return m, bh.Back()
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws header, active screen and footer into one frame.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	var notice layout.Notice
	if np, ok := active.(screen.NoticeProvider); ok {
		notice = np.Notice()
	}

	footer := layout.RenderFooter(footerHints, notice, m.width)
	return layout.RenderFrame(header, footer, m.width, m.height, m.router.View)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
