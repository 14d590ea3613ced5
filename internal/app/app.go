package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/router"
	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/screens/session"
	"github.com/abhisek/interviewer/internal/screens/summary"
	"github.com/abhisek/interviewer/internal/screens/welcome"
	"github.com/abhisek/interviewer/internal/ui/layout"
)

// Options configures an interactive interview.
type Options struct {
	// Name skips the welcome screen when set.
	Name string

	// ReportDir is where the results screen saves reports. Defaults to ".".
	ReportDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates the model, starting on the welcome screen unless a
// candidate name is already known.
func newAppModel(svc orchestrator.Service, opts Options) AppModel {
	if opts.ReportDir == "" {
		opts.ReportDir = "."
	}

	done := func(id string, final *interview.Action) screen.Screen {
		return summary.New(svc, id, final.Message, opts.ReportDir)
	}
	interviewFor := func(name string) screen.Screen {
		return session.New(svc, name, done)
	}

	var initial screen.Screen
	if opts.Name != "" {
		initial = interviewFor(opts.Name)
	} else {
		initial = welcome.New(interviewFor)
	}

	return AppModel{
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
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

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, svc orchestrator.Service, opts Options) error {
	p := tea.NewProgram(newAppModel(svc, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interview ui: %w", err)
	}
	return nil
}
