package questiongen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/interviewer/internal/interview"
)

// Mode selects how the offline generator fills the closed-form rounds.
type Mode string

const (
	// ModeTemplates generates numeric and word puzzles with a known answer.
	ModeTemplates Mode = "templates"

	// ModeBank draws open-ended puzzles from the question bank.
	ModeBank Mode = "bank"
)

// ParseMode converts a config string into a Mode. Empty means templates.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTemplates:
		return ModeTemplates, nil
	case ModeBank:
		return ModeBank, nil
	default:
		return "", fmt.Errorf("unknown offline mode: %q", s)
	}
}

var (
	aptitudeKinds = []string{"percentage", "speed", "work", "profit_loss", "average"}
	logicalKinds  = []string{"sequence", "coding", "direction", "blood_relation"}
)

// OfflineGenerator produces questions without any network access.
// Safe for concurrent use.
type OfflineGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	bank  *Bank
	mode  Mode
	kinds map[interview.Round][]string
}

// OfflineOption configures an OfflineGenerator.
type OfflineOption func(*OfflineGenerator)

// WithSeed makes generation deterministic.
func WithSeed(seed uint64) OfflineOption {
	return func(g *OfflineGenerator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithBank replaces the embedded question bank.
func WithBank(b *Bank) OfflineOption {
	return func(g *OfflineGenerator) { g.bank = b }
}

// WithMode selects templates or bank puzzles for the closed-form rounds.
func WithMode(m Mode) OfflineOption {
	return func(g *OfflineGenerator) { g.mode = m }
}

// WithKinds restricts the templates to the named kinds. A round left with no
// kinds falls back to a fixed question.
func WithKinds(kinds ...string) OfflineOption {
	return func(g *OfflineGenerator) {
		g.kinds[interview.RoundAptitude] = keepKinds(aptitudeKinds, kinds)
		g.kinds[interview.RoundLogical] = keepKinds(logicalKinds, kinds)
	}
}

// WithRoundKinds is WithKinds for a single round. Other rounds keep their kinds.
func WithRoundKinds(r interview.Round, kinds ...string) OfflineOption {
	return func(g *OfflineGenerator) {
		switch r {
		case interview.RoundAptitude:
			g.kinds[r] = keepKinds(aptitudeKinds, kinds)
		case interview.RoundLogical:
			g.kinds[r] = keepKinds(logicalKinds, kinds)
		}
	}
}

func keepKinds(all, want []string) []string {
	var out []string
	for _, k := range all {
		if slices.Contains(want, k) {
			out = append(out, k)
		}
	}
	return out
}

// NewOffline creates an OfflineGenerator. The embedded bank is used unless
// WithBank supplies one.
func NewOffline(opts ...OfflineOption) (*OfflineGenerator, error) {
	g := &OfflineGenerator{
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		mode: ModeTemplates,
		kinds: map[interview.Round][]string{
			interview.RoundAptitude: aptitudeKinds,
			interview.RoundLogical:  logicalKinds,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bank == nil {
		b, err := DefaultBank()
		if err != nil {
			return nil, err
		}
		g.bank = b
	}
	return g, nil
}

// Generate produces a question for input.Round.
func (g *OfflineGenerator) Generate(_ context.Context, input GenerateInput) (*Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch input.Round {
	case interview.RoundBehavioural:
		return g.fromList(g.bank.Behavioural, input.PriorQuestions)
	case interview.RoundLogical, interview.RoundAptitude:
		if g.mode == ModeBank {
			if puzzles := g.bank.PuzzlesFor(input.Round); len(puzzles) > 0 {
				return g.fromList(puzzles, input.PriorQuestions)
			}
		}
		text, answer := g.template(input.Round)(g.rng)
		return &Question{Text: text, ExpectedAnswer: answer, Source: interview.SourceOffline}, nil
	default:
		return nil, fmt.Errorf("no offline questions for round %q", input.Round)
	}
}

func (g *OfflineGenerator) template(r interview.Round) template {
	kinds := g.kinds[r]
	if len(kinds) == 0 {
		if r == interview.RoundAptitude {
			return func(*rand.Rand) (string, string) { return "What is 2 + 2?", "4" }
		}
		return analogy
	}
	kind := pick(g.rng, kinds)
	if r == interview.RoundAptitude {
		return aptitudeTemplates[kind]
	}
	return logicalTemplates[kind]
}

// fromList picks an unasked entry, or any entry once all have been asked.
func (g *OfflineGenerator) fromList(list, prior []string) (*Question, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("question list is empty")
	}
	asked := make(map[string]struct{}, len(prior))
	for _, p := range prior {
		asked[interview.NormalizeText(p)] = struct{}{}
	}
	var fresh []string
	for _, q := range list {
		if _, ok := asked[interview.NormalizeText(q)]; !ok {
			fresh = append(fresh, q)
		}
	}
	if len(fresh) == 0 {
		fresh = list
	}
	return &Question{Text: pick(g.rng, fresh), Source: interview.SourceOffline}, nil
}
