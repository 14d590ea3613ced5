package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/report"
	"github.com/abhisek/interviewer/internal/screens/session"
)

const (
	choiceMarkdown = "Save Markdown report"
	choiceText     = "Save text report"
	choiceDone     = "Done"
)

// Prompter asks the user for input in plain (line-oriented) mode.
type Prompter interface {
	// Ask reads one line. The returned value is never blank.
	Ask(label string) (string, error)
	// Choose returns the selected item.
	Choose(label string, items []string) (string, error)
}

// TerminalPrompter implements Prompter with promptui.
type TerminalPrompter struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (p TerminalPrompter) Ask(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: notBlank,
		Stdin:    p.Stdin,
		Stdout:   p.Stdout,
	}
	v, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func (p TerminalPrompter) Choose(label string, items []string) (string, error) {
	sel := promptui.Select{
		Label:  label,
		Items:  items,
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}
	_, v, err := sel.Run()
	return v, err
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("answer must not be empty")
	}
	return nil
}

// RunPlain runs an interview with line prompts instead of the full-screen
// UI. Interrupting a prompt leaves the session in place and prints its ID.
func RunPlain(ctx context.Context, svc orchestrator.Service, opts Options, p Prompter, out io.Writer) error {
	if opts.ReportDir == "" {
		opts.ReportDir = "."
	}

	name := opts.Name
	if name == "" {
		var err error
		if name, err = p.Ask("Your name"); err != nil {
			return interrupted(err, out, "")
		}
	}

	res, err := svc.Start(ctx, name)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}
	id := res.SessionID
	fmt.Fprintf(out, "Session %s started for %s.\n", id, name)

	action := res.InitialAction
	asked := 0
	lastID := ""
	for !action.Completed() {
		printFeedback(out, action.Feedback)

		if action.Question.ID != lastID {
			asked++
			lastID = action.Question.ID
		}
		fmt.Fprintf(out, "\n[%s round] Q %d/%d\n%s\n", action.Round.Label(), asked, session.TotalQuestions, action.Question.Text)

		answer, err := p.Ask("Answer")
		if err != nil {
			return interrupted(err, out, id)
		}
		if action, err = svc.NextAction(ctx, id, &answer); err != nil {
			return fmt.Errorf("submit answer: %w", err)
		}
	}

	printFeedback(out, action.Feedback)
	fmt.Fprintf(out, "\n%s\n", action.Message)

	sc, err := svc.Scorecard(ctx, id)
	if err != nil {
		return fmt.Errorf("scorecard: %w", err)
	}
	fmt.Fprintln(out, "\nScorecard")
	for _, c := range sc.Categories() {
		fmt.Fprintf(out, "  %-13s %.2f (weight %.0f%%)\n", c.Name, c.Score, c.Weight*100)
	}
	fmt.Fprintf(out, "  %-13s %.2f/5\n", "Overall", sc.Overall)

	for {
		choice, err := p.Choose("Report", []string{choiceMarkdown, choiceText, choiceDone})
		if err != nil {
			return interrupted(err, out, "")
		}
		var format report.Format
		switch choice {
		case choiceMarkdown:
			format = report.FormatMarkdown
		case choiceText:
			format = report.FormatText
		default:
			return nil
		}
		path, err := saveReport(ctx, svc, id, format, opts.ReportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %s\n", path)
	}
}

func printFeedback(out io.Writer, ev *interview.Evaluation) {
	if ev == nil {
		return
	}
	fmt.Fprintf(out, "Score: %.1f/5", ev.Score)
	if ev.Feedback != "" {
		fmt.Fprintf(out, "  %s", ev.Feedback)
	}
	fmt.Fprintln(out)
}

// interrupted turns a prompt abort into a clean exit.
func interrupted(err error, out io.Writer, sessionID string) error {
	if !errors.Is(err, promptui.ErrInterrupt) && !errors.Is(err, promptui.ErrEOF) {
		return err
	}
	if sessionID != "" {
		fmt.Fprintf(out, "\nInterview paused. Session ID: %s\n", sessionID)
	}
	return nil
}

func saveReport(ctx context.Context, svc orchestrator.Service, id string, format report.Format, dir string) (string, error) {
	body, err := svc.ExportReport(ctx, id, format)
	if err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return report.WriteFile(dir, id, format, body)
}
