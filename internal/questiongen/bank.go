package questiongen

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/interviewer/internal/interview"
)

//go:embed bank.yaml
var defaultBankYAML []byte

// Bank is the static set of offline questions.
type Bank struct {
	Behavioural []string            `yaml:"behavioural"`
	Puzzles     map[string][]string `yaml:"puzzles"`
}

// ParseBank decodes a YAML question bank. Every round needs at least one
// behavioural question; puzzle lists are optional.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(b.Behavioural) == 0 {
		return nil, fmt.Errorf("question bank has no behavioural questions")
	}
	for key := range b.Puzzles {
		r, err := interview.ParseRound(key)
		if err != nil || r == interview.RoundFinished || r == interview.RoundBehavioural {
			return nil, fmt.Errorf("question bank: unexpected puzzle round %q", key)
		}
	}
	return &b, nil
}

// DefaultBank parses the embedded question bank.
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBankYAML)
}

// PuzzlesFor returns the open-ended puzzles for a round.
func (b *Bank) PuzzlesFor(r interview.Round) []string {
	return b.Puzzles[string(r)]
}
