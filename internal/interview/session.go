package interview

import (
	"time"

	"github.com/google/uuid"
)

// Session is the full record of one candidate's interview run.
//
// At most one question is outstanding at any time:
// len(Answers) <= len(Questions) <= len(Answers)+1.
type Session struct {
	ID            string                `json:"session_id"`
	CandidateName string                `json:"candidate_name,omitempty"`
	CurrentRound  Round                 `json:"current_round"`
	Questions     []Question            `json:"questions_asked"`
	Answers       []Answer              `json:"answers"`
	Scores        map[string]Evaluation `json:"scores"`
	IsCompleted   bool                  `json:"is_completed"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewSession creates a session in the first round.
func NewSession(candidateName string, now time.Time) *Session {
	return &Session{
		ID:            uuid.NewString(),
		CandidateName: candidateName,
		CurrentRound:  RoundBehavioural,
		Questions:     []Question{},
		Answers:       []Answer{},
		Scores:        map[string]Evaluation{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// PendingQuestion returns the most recently asked question if it has not
// been answered yet.
func (s *Session) PendingQuestion() (*Question, bool) {
	if len(s.Questions) == 0 || len(s.Questions) == len(s.Answers) {
		return nil, false
	}
	return &s.Questions[len(s.Questions)-1], true
}

// QuestionsInRound counts the questions asked within round r.
func (s *Session) QuestionsInRound(r Round) int {
	n := 0
	for _, q := range s.Questions {
		if q.Round == r {
			n++
		}
	}
	return n
}

// AskedTexts returns the normalized text of every question asked so far.
func (s *Session) AskedTexts() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Questions))
	for _, q := range s.Questions {
		set[NormalizeText(q.Text)] = struct{}{}
	}
	return set
}

// HasAsked reports whether text collides with a previously asked question.
func (s *Session) HasAsked(text string) bool {
	_, ok := s.AskedTexts()[NormalizeText(text)]
	return ok
}

// AnswerFor returns the answer recorded for question index i.
// Answers are parallel to questions by position.
func (s *Session) AnswerFor(i int) (Answer, bool) {
	if i < 0 || i >= len(s.Answers) {
		return Answer{}, false
	}
	return s.Answers[i], true
}

// Complete moves the session to the terminal round.
func (s *Session) Complete() {
	s.CurrentRound = RoundFinished
	s.IsCompleted = true
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Questions = append([]Question(nil), s.Questions...)
	c.Answers = append([]Answer(nil), s.Answers...)
	c.Scores = make(map[string]Evaluation, len(s.Scores))
	for k, v := range s.Scores {
		bd := make(map[string]float64, len(v.Breakdown))
		for bk, bv := range v.Breakdown {
			bd[bk] = bv
		}
		v.Breakdown = bd
		c.Scores[k] = v
	}
	return &c
}

// PublicSession is the client-facing view of a Session. Expected answers
// are stripped.
type PublicSession struct {
	ID            string                `json:"session_id"`
	CandidateName string                `json:"candidate_name,omitempty"`
	CurrentRound  Round                 `json:"current_round"`
	Questions     []PublicQuestion      `json:"questions_asked"`
	Answers       []Answer              `json:"answers"`
	Scores        map[string]Evaluation `json:"scores"`
	IsCompleted   bool                  `json:"is_completed"`
}

// Public returns the client-facing view of the session.
func (s *Session) Public() *PublicSession {
	qs := make([]PublicQuestion, len(s.Questions))
	for i, q := range s.Questions {
		qs[i] = q.Public()
	}
	return &PublicSession{
		ID:            s.ID,
		CandidateName: s.CandidateName,
		CurrentRound:  s.CurrentRound,
		Questions:     qs,
		Answers:       s.Answers,
		Scores:        s.Scores,
		IsCompleted:   s.IsCompleted,
	}
}
