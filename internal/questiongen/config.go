package questiongen

import "time"

// Config holds generation parameters.
type Config struct {
	// MaxTokens limits the LLM response size.
	MaxTokens int

	// Temperature controls LLM randomness.
	Temperature float64

	// MaxPriorQuestions caps the dedup list sent to the LLM.
	MaxPriorQuestions int

	// Timeout bounds a single LLM generation before falling back.
	Timeout time.Duration

	// Validators run in order after generation.
	Validators []Validator
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Temperature:       0.7,
		MaxPriorQuestions: 10,
		Timeout:           5 * time.Second,
		Validators: []Validator{
			&StructuralValidator{},
		},
	}
}
