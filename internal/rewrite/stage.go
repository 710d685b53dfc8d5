package rewrite

import (
	"fmt"

	"github.com/phrazzld/rewriter/internal/domain"
)

// State is the position of one record in the stage chain.
type State int

// States in the order a successful record passes through them. Failed can be
// reached from any non-terminal state.
const (
	StatePending State = iota
	StateTitleDone
	StateDescriptionDone
	StateSummaryDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateTitleDone:
		return "title_done"
	case StateDescriptionDone:
		return "description_done"
	case StateSummaryDone:
		return "summary_done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == StateSummaryDone || s == StateFailed
}

// NextStage returns the stage that runs from s. The boolean is false for
// terminal states.
func (s State) NextStage() (domain.Stage, bool) {
	switch s {
	case StatePending:
		return domain.StageTitle, true
	case StateTitleDone:
		return domain.StageDescription, true
	case StateDescriptionDone:
		return domain.StageSummary, true
	default:
		return "", false
	}
}

// Transition validates a move from s to to and returns the new state.
func (s State) Transition(to State) (State, error) {
	if s.Terminal() {
		return s, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, s)
	}
	if to == StateFailed || to == s+1 {
		return to, nil
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
}
