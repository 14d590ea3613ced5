package interview

import "fmt"

// Round is a phase of the interview. Each round owns one question category
// and one grading policy.
type Round string

const (
	RoundBehavioural Round = "behavioural"
	RoundLogical     Round = "logical"
	RoundAptitude    Round = "aptitude"
	RoundFinished    Round = "finished"
)

// Rounds lists the question-bearing rounds in interview order.
var Rounds = [...]Round{RoundBehavioural, RoundLogical, RoundAptitude}

// NumRounds is the number of question-bearing rounds.
const NumRounds = len(Rounds)

// Next returns the round that follows r. Finished is terminal and maps to itself.
func (r Round) Next() Round {
	switch r {
	case RoundBehavioural:
		return RoundLogical
	case RoundLogical:
		return RoundAptitude
	default:
		return RoundFinished
	}
}

// Index returns the position of r in Rounds, or -1 for Finished and unknown values.
func (r Round) Index() int {
	for i, v := range Rounds {
		if v == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the four known rounds.
func (r Round) Valid() bool {
	return r == RoundFinished || r.Index() >= 0
}

// Label returns a human-readable round name.
func (r Round) Label() string {
	switch r {
	case RoundBehavioural:
		return "Behavioural"
	case RoundLogical:
		return "Logical"
	case RoundAptitude:
		return "Aptitude"
	case RoundFinished:
		return "Finished"
	default:
		return string(r)
	}
}

// ParseRound converts a string into a Round.
func ParseRound(s string) (Round, error) {
	r := Round(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown round: %q", s)
	}
	return r, nil
}
