package interview

// Status is the state reported back to a client after each call.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// CompletedMessage is returned once the interview has no further questions.
const CompletedMessage = "Interview finished. Thank you!"

// Action is the result of one orchestrator step.
type Action struct {
	Status Status `json:"status"`

	// Question is the next question to answer. Set only while in progress.
	Question *PublicQuestion `json:"question,omitempty"`

	// Round is the round the returned question belongs to.
	Round Round `json:"round,omitempty"`

	// Feedback is the evaluation of the answer submitted with this call, if any.
	Feedback *Evaluation `json:"feedback,omitempty"`

	// Message is a human-readable note, set on completion.
	Message string `json:"message,omitempty"`

	// Session is the session snapshot, set on completion.
	Session *PublicSession `json:"session,omitempty"`
}

// Completed reports whether the action closes the interview.
func (a *Action) Completed() bool {
	return a.Status == StatusCompleted
}
