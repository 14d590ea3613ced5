package session

import (
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/orchestrator"
)

// startedMsg is sent once the orchestrator has created the session.
type startedMsg struct {
	Result *orchestrator.StartResult
	Err    error
}

// actionMsg carries the orchestrator's reply to a submitted answer.
type actionMsg struct {
	Action *interview.Action
	Err    error
}
