package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/scoring"
)

func sampleSession() *interview.Session {
	sess := interview.NewSession("Ada Lovelace", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	q1 := interview.NewQuestion("Tell me about a time you showed leadership skills.", interview.RoundBehavioural, "", interview.SourceOffline)
	q2 := interview.NewQuestion("What is 25% of 200?", interview.RoundAptitude, "50", interview.SourceOffline)
	sess.Questions = append(sess.Questions, q1, q2)
	sess.Answers = append(sess.Answers, interview.Answer{QuestionID: q1.ID, Text: "I led the migration."})
	sess.Scores[q1.ID] = interview.NewEvaluation(map[string]float64{"situation": 2, "task": 2, "action": 2, "result": 2}, "Could be more detailed.")
	return sess
}

func TestRender_Markdown(t *testing.T) {
	sess := sampleSession()
	out, err := Render(sess, scoring.Calculate(sess), FormatMarkdown)
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "# Interview Report for Ada Lovelace"))
	assert.Contains(t, doc, "**Session ID:** "+sess.ID)
	assert.Contains(t, doc, "| Behavioural | 2.00 | 40% |")
	assert.Contains(t, doc, "| Communication | 2.00 | 10% |")
	assert.Contains(t, doc, "| **Overall** | **1.00** | |")
	assert.Contains(t, doc, "### Q1 (Behavioural)")
	assert.Contains(t, doc, "**Answer:** I led the migration.")
	assert.Contains(t, doc, "**Feedback:** Could be more detailed.")
	assert.Contains(t, doc, "### Q2 (Aptitude)")
	assert.Contains(t, doc, "_No answer_")
}

func TestRender_Text(t *testing.T) {
	sess := sampleSession()
	sess.CandidateName = ""
	out, err := Render(sess, scoring.Calculate(sess), FormatText)
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "INTERVIEW REPORT FOR CANDIDATE"))
	assert.Contains(t, doc, "Status: In progress")
	assert.Contains(t, doc, "Q1 [Behavioural] Tell me about a time you showed leadership skills.")
	assert.Contains(t, doc, "Score: 2.00/5")
	assert.Contains(t, doc, "A: (no answer)")
	assert.NotContains(t, doc, "**")
}

func TestRender_UnknownFormat(t *testing.T) {
	sess := sampleSession()
	_, err := Render(sess, scoring.Calculate(sess), Format("pdf"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatMarkdown, false},
		{"MD", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"txt", FormatText, false},
		{" text ", FormatText, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatFilename(t *testing.T) {
	assert.Equal(t, "report_abc.md", FormatMarkdown.Filename("abc"))
	assert.Equal(t, "report_abc.txt", FormatText.Filename("abc"))
	assert.Equal(t, "text/plain; charset=utf-8", FormatText.ContentType())
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := WriteFile(dir, "abc", FormatText, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report_abc.txt"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}
