package rewrite

import "errors"

var (
	// ErrInvalidTransition is returned when a stage state change would move
	// backwards, skip a stage, or leave a terminal state.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrEmptyStageOutput is returned when a stage produced no text after the
	// length limit was applied.
	ErrEmptyStageOutput = errors.New("stage produced no text")

	// ErrPersistenceFailed wraps every error from writing a successful outcome.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrInvalidConfig is returned when a component is built without a
	// required collaborator.
	ErrInvalidConfig = errors.New("invalid rewrite configuration")

	// ErrRunInProgress is returned when a run is requested while another one
	// is still processing records.
	ErrRunInProgress = errors.New("a rewrite run is already in progress")
)
