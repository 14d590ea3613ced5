package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/report"
	"github.com/abhisek/interviewer/internal/scoring"
	"github.com/abhisek/interviewer/internal/screen"
	"github.com/abhisek/interviewer/internal/ui/components"
	"github.com/abhisek/interviewer/internal/ui/layout"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

const loadTimeout = 30 * time.Second

type scorecardMsg struct {
	Scorecard scoring.Scorecard
	Err       error
}

type savedMsg struct {
	Path string
	Err  error
}

// SummaryScreen shows the final scorecard and offers report downloads.
type SummaryScreen struct {
	svc       orchestrator.Service
	sessionID string
	message   string
	reportDir string

	scorecard *scoring.Scorecard
	menu      components.Menu
	status    string
	errMsg    string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for a completed session. Reports are written
// into reportDir.
func New(svc orchestrator.Service, sessionID, message, reportDir string) *SummaryScreen {
	s := &SummaryScreen{
		svc:       svc,
		sessionID: sessionID,
		message:   message,
		reportDir: reportDir,
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Hotkey: "m", Label: "Save Markdown report", Action: func() tea.Cmd { return s.save(report.FormatMarkdown) }},
		{Hotkey: "t", Label: "Save text report", Action: func() tea.Cmd { return s.save(report.FormatText) }},
		{Hotkey: "q", Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	svc, id := s.svc, s.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		sc, err := svc.Scorecard(ctx, id)
		return scorecardMsg{Scorecard: sc, Err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scorecardMsg:
		if msg.Err != nil {
			s.errMsg = "Could not load the scorecard: " + msg.Err.Error()
			return s, nil
		}
		s.scorecard = &msg.Scorecard
		return s, nil

	case savedMsg:
		if msg.Err != nil {
			s.errMsg = "Could not save the report: " + msg.Err.Error()
			s.status = ""
			return s, nil
		}
		s.errMsg = ""
		s.status = "Saved " + msg.Path
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) save(format report.Format) tea.Cmd {
	svc, id, dir := s.svc, s.sessionID, s.reportDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		body, err := svc.ExportReport(ctx, id, format)
		if err != nil {
			return savedMsg{Err: err}
		}
		path, err := report.WriteFile(dir, id, format, body)
		return savedMsg{Path: path, Err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(theme.Title.Render("Interview complete!")))
	b.WriteString("\n")
	if s.message != "" {
		b.WriteString(center(theme.Hint.Render(s.message)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.scorecard == nil {
		if s.errMsg == "" {
			b.WriteString(center(theme.Hint.Render("Loading scorecard...")))
			b.WriteString("\n")
		}
	} else {
		barWidth := min(width-8, 60)
		for _, c := range s.scorecard.Categories() {
			bar := components.ProgressBar{
				Label:   fmt.Sprintf("%-13s", c.Name),
				Percent: c.Score / 5,
				Suffix:  fmt.Sprintf("%.2f (%.0f%%)", c.Score, c.Weight*100),
				Width:   barWidth,
			}
			b.WriteString(center(bar.View()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(center(theme.ScoreColor(s.scorecard.Overall).
			Render(fmt.Sprintf("Overall: %.2f/5", s.scorecard.Overall))))
		b.WriteString("\n\n")
	}

	b.WriteString(center(s.menu.View()))

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Render(s.status)))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.ErrorText.Render(s.errMsg)))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
