package entity

import "time"

// State is a step of the query pipeline.
type State string

const (
	StateReceived     State = "RECEIVED"
	StateEnriching    State = "ENRICHING"
	StateSelecting    State = "SELECTING"
	StateDirectAnswer State = "DIRECT_ANSWER"
	StateExecuting    State = "EXECUTING"
	StateChainCheck   State = "CHAIN_CHECK"
	StateChaining     State = "CHAINING"
	StateGenerating   State = "GENERATING_RESPONSE"
	StateDone         State = "DONE"
	StateError        State = "ERROR"
)

var transitions = map[State][]State{
	StateReceived:     {StateEnriching},
	StateEnriching:    {StateSelecting},
	StateSelecting:    {StateDirectAnswer, StateExecuting},
	StateDirectAnswer: {StateDone},
	StateExecuting:    {StateChainCheck, StateGenerating},
	StateChainCheck:   {StateChaining, StateGenerating},
	StateChaining:     {StateGenerating},
	StateGenerating:   {StateDone},
}

// CanTransition reports whether from→to is a legal edge. ERROR is reachable
// from every non-terminal state.
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateError {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// Transition is delivered to pipeline observers.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
	// Detail is a short human-readable note, e.g. the selected tool.
	Detail string `json:"detail,omitempty"`
}
