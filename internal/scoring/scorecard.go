// Package scoring aggregates per-answer evaluations into a weighted scorecard.
package scoring

import "github.com/abhisek/interviewer/internal/interview"

// Weights are the contribution of each category to the overall score.
var Weights = struct {
	Behavioural   float64
	Logical       float64
	Aptitude      float64
	Communication float64
}{
	Behavioural:   0.4,
	Logical:       0.3,
	Aptitude:      0.2,
	Communication: 0.1,
}

// Scorecard holds the per-category averages on a 0-5 scale.
type Scorecard struct {
	Behavioural float64 `json:"behavioural"`
	Logical     float64 `json:"logical"`
	Aptitude    float64 `json:"aptitude"`

	// Communication mirrors Behavioural until a dedicated signal exists.
	Communication float64 `json:"communication"`

	Overall float64 `json:"overall"`

	// Answered counts graded answers per round.
	Answered map[interview.Round]int `json:"answered"`
}

// Calculate builds the scorecard for a session. Rounds without graded
// answers score zero. Works on sessions still in progress.
func Calculate(sess *interview.Session) Scorecard {
	sums := make(map[interview.Round]float64, interview.NumRounds)
	counts := make(map[interview.Round]int, interview.NumRounds)
	for _, r := range interview.Rounds {
		counts[r] = 0
	}

	for _, q := range sess.Questions {
		ev, ok := sess.Scores[q.ID]
		if !ok || q.Round.Index() < 0 {
			continue
		}
		sums[q.Round] += ev.Score
		counts[q.Round]++
	}

	avg := func(r interview.Round) float64 {
		if counts[r] == 0 {
			return 0
		}
		return sums[r] / float64(counts[r])
	}

	sc := Scorecard{
		Behavioural: avg(interview.RoundBehavioural),
		Logical:     avg(interview.RoundLogical),
		Aptitude:    avg(interview.RoundAptitude),
		Answered:    counts,
	}
	sc.Communication = sc.Behavioural
	sc.Overall = sc.Behavioural*Weights.Behavioural +
		sc.Logical*Weights.Logical +
		sc.Aptitude*Weights.Aptitude +
		sc.Communication*Weights.Communication
	return sc
}

// Category is one labelled row of a scorecard.
type Category struct {
	Name   string
	Score  float64
	Weight float64
}

// Categories lists the weighted rows in display order.
func (s Scorecard) Categories() []Category {
	return []Category{
		{"Behavioural", s.Behavioural, Weights.Behavioural},
		{"Logical", s.Logical, Weights.Logical},
		{"Aptitude", s.Aptitude, Weights.Aptitude},
		{"Communication", s.Communication, Weights.Communication},
	}
}
