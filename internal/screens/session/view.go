package session

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/ui/components"
	"github.com/abhisek/interviewer/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.question == nil {
		msg := "Preparing your first question..."
		if s.errMsg != "" {
			msg = s.errMsg
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render(msg))
	}

	var b strings.Builder

	bar := components.ProgressBar{
		Label:   s.round.Label(),
		Percent: float64(s.asked-1) / float64(TotalQuestions),
		Suffix:  fmt.Sprintf("%d of %d", s.asked, TotalQuestions),
		Width:   min(width-4, 70),
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	cardWidth := min(width-8, 76)
	question := theme.Card.
		Width(cardWidth).
		Foreground(theme.Text).
		Bold(true).
		Render(s.question.Text)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, question))
	b.WriteString("\n\n")

	answer := "Answer: " + s.input.View()
	if s.busy {
		answer += "\n" + theme.Hint.Render("Evaluating...")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, answer))
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.ErrorText.Render(s.errMsg)))
		b.WriteString("\n")
	}

	if s.lastFeedback != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			renderFeedback(s.lastFeedback, cardWidth)))
	}

	return b.String()
}

// renderFeedback shows the previous answer's score and comments.
func renderFeedback(ev *interview.Evaluation, width int) string {
	var b strings.Builder
	b.WriteString(theme.Hint.Render("Previous answer  "))
	b.WriteString(theme.ScoreColor(ev.Score).Render(fmt.Sprintf("%.1f/5", ev.Score)))

	if len(ev.Breakdown) > 0 {
		keys := make([]string, 0, len(ev.Breakdown))
		for k := range ev.Breakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s %.0f", k, ev.Breakdown[k])
		}
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(strings.Join(parts, " · ")))
	}

	if ev.Feedback != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(ev.Feedback))
	}
	return b.String()
}
