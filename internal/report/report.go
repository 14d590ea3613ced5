// Package report renders an interview transcript and scorecard as a document.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/scoring"
)

// Format is a report output format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat converts a user-supplied format. Empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported report format: %q", s)
	}
}

// Filename returns the download name for a session report.
func (f Format) Filename(sessionID string) string {
	return fmt.Sprintf("report_%s.%s", sessionID, f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Entry is one question of the transcript.
type Entry struct {
	Number   int
	Round    string
	Question string
	Answer   string
	Answered bool
	Score    float64
	Feedback string
	Graded   bool
}

// Data is the template input.
type Data struct {
	Candidate string
	SessionID string
	Status    string
	Scorecard scoring.Scorecard
	Rows      []scoring.Category
	Entries   []Entry
}

func buildData(sess *interview.Session, sc scoring.Scorecard) Data {
	candidate := sess.CandidateName
	if candidate == "" {
		candidate = "Candidate"
	}
	status := "In progress"
	if sess.IsCompleted {
		status = "Completed"
	}

	entries := make([]Entry, len(sess.Questions))
	for i, q := range sess.Questions {
		e := Entry{Number: i + 1, Round: q.Round.Label(), Question: q.Text}
		if a, ok := sess.AnswerFor(i); ok {
			e.Answer, e.Answered = a.Text, true
		}
		if ev, ok := sess.Scores[q.ID]; ok {
			e.Score, e.Feedback, e.Graded = ev.Score, ev.Feedback, true
		}
		entries[i] = e
	}

	return Data{
		Candidate: candidate,
		SessionID: sess.ID,
		Status:    status,
		Scorecard: sc,
		Rows:      sc.Categories(),
		Entries:   entries,
	}
}

var funcs = template.FuncMap{
	"score": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	"upper": strings.ToUpper,
}

var markdownTemplate = template.Must(template.New("md").Funcs(funcs).Parse(`# Interview Report for {{.Candidate}}

- **Session ID:** {{.SessionID}}
- **Status:** {{.Status}}

## Scorecard

| Category | Score (0-5) | Weight |
|---|---|---|
{{range .Rows}}| {{.Name}} | {{score .Score}} | {{pct .Weight}} |
{{end}}| **Overall** | **{{score .Scorecard.Overall}}** | |

## Transcript
{{range .Entries}}
### Q{{.Number}} ({{.Round}})

**Question:** {{.Question}}

**Answer:** {{if .Answered}}{{.Answer}}{{else}}_No answer_{{end}}
{{if .Graded}}
**Score:** {{score .Score}}/5

**Feedback:** {{.Feedback}}
{{end}}{{end}}`))

var textTemplate = template.Must(template.New("txt").Funcs(funcs).Parse(`INTERVIEW REPORT FOR {{upper .Candidate}}
Session ID: {{.SessionID}}
Status: {{.Status}}

SCORECARD
{{range .Rows}}  {{printf "%-14s" .Name}} {{score .Score}}  ({{pct .Weight}})
{{end}}  {{printf "%-14s" "Overall"}} {{score .Scorecard.Overall}}

TRANSCRIPT
{{range .Entries}}
Q{{.Number}} [{{.Round}}] {{.Question}}
A: {{if .Answered}}{{.Answer}}{{else}}(no answer){{end}}
{{if .Graded}}Score: {{score .Score}}/5
Feedback: {{.Feedback}}
{{end}}{{end}}`))

// Render produces the report document.
func Render(sess *interview.Session, sc scoring.Scorecard, format Format) ([]byte, error) {
	tmpl := markdownTemplate
	switch format {
	case FormatMarkdown:
	case FormatText:
		tmpl = textTemplate
	default:
		return nil, fmt.Errorf("unsupported report format: %q", format)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildData(sess, sc)); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
