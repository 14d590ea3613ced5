package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/interviewer/internal/interview"
)

const systemPrompt = `You are an experienced interviewer running a structured job interview.

Rules:
- Generate exactly one question for the given round.
- Behavioural questions must invite an answer in the STAR method (Situation, Task, Action, Result). Leave expected_answer empty.
- Logical questions are puzzles, sequence completion or deductive reasoning.
- Aptitude questions are short quantitative problems (percentages, speed, work, profit and loss, averages).
- For logical and aptitude questions with a single short answer, put it in expected_answer as a bare number or word. Otherwise leave it empty.
- Keep the question self-contained and under three sentences.
- Do not repeat any question from the "already asked" list.`

var roundBriefs = map[interview.Round]string{
	interview.RoundBehavioural: "Ask a behavioural question that can be answered using the STAR method.",
	interview.RoundLogical:     "Ask a logical reasoning question (e.g., puzzles, sequence completion, or deductive reasoning).",
	interview.RoundAptitude:    "Ask a quantitative aptitude question with a single numeric answer.",
}

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Round: %s\n", input.Round.Label())
	fmt.Fprintf(&b, "Brief: %s\n", roundBriefs[input.Round])
	if input.CandidateName != "" {
		fmt.Fprintf(&b, "Candidate: %s\n", input.CandidateName)
	}
	b.WriteString("Difficulty: Medium\n")

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}
