package domain

// Phase represents the current phase of a session
type Phase string

const (
	PhaseWaiting          Phase = "WAITING"           // Creator present, waiting for an opponent
	PhaseFull             Phase = "FULL"              // Both present, no word committed
	PhaseCommitting       Phase = "COMMITTING"        // At least one word committed
	PhaseTurn             Phase = "TURN"              // Active participant may guess
	PhaseAwaitingFeedback Phase = "AWAITING_FEEDBACK" // Manual mode: guess waits for the opponent's marks
	PhaseFinished         Phase = "FINISHED"          // Won or abandoned
)

var validTransitions = map[Phase][]Phase{
	PhaseWaiting:          {PhaseFull, PhaseFinished},
	PhaseFull:             {PhaseCommitting, PhaseFinished},
	PhaseCommitting:       {PhaseTurn, PhaseFinished},
	PhaseTurn:             {PhaseAwaitingFeedback, PhaseFinished},
	PhaseAwaitingFeedback: {PhaseTurn, PhaseFinished},
}

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// IsTerminal reports whether no further game actions are accepted
func (p Phase) IsTerminal() bool {
	return p == PhaseFinished
}

// CanTransitionTo checks if a transition from current phase to target phase is valid.
// Staying in the same phase is always allowed.
func (p Phase) CanTransitionTo(target Phase) bool {
	if p == target {
		return !p.IsTerminal()
	}

	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}
