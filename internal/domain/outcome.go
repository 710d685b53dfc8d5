package domain

import (
	"errors"
	"fmt"
)

// Stage names one step of the generation chain.
type Stage string

// Generation stages in execution order.
const (
	StageTitle       Stage = "title"
	StageDescription Stage = "description"
	StageSummary     Stage = "summary"
)

// ErrIncompleteOutcome is returned when a successful outcome is missing one of
// its generated fields.
var ErrIncompleteOutcome = errors.New("successful outcome must carry title, description and summary")

// Outcome is the final result of rewriting one record. A successful outcome
// carries all three generated fields; a failed one carries none of them.
type Outcome struct {
	RecordID    int64
	Title       string
	Description string
	Summary     string

	// FailedStage and Err are set only on failure.
	FailedStage Stage
	Err         error
}

// Success builds a successful outcome.
func Success(recordID int64, title, description, summary string) Outcome {
	return Outcome{
		RecordID:    recordID,
		Title:       title,
		Description: description,
		Summary:     summary,
	}
}

// Failure builds a failed outcome for the given stage.
func Failure(recordID int64, stage Stage, err error) Outcome {
	if err == nil {
		err = fmt.Errorf("%s stage failed", stage)
	}
	return Outcome{
		RecordID:    recordID,
		FailedStage: stage,
		Err:         err,
	}
}

// Succeeded reports whether the outcome should be persisted.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Validate enforces the all-or-nothing shape of an outcome.
func (o Outcome) Validate() error {
	if o.RecordID <= 0 {
		return fmt.Errorf("%w: record %d", ErrInvalidID, o.RecordID)
	}
	if !o.Succeeded() {
		if o.Title != "" || o.Description != "" || o.Summary != "" {
			return fmt.Errorf("%w: failed outcome for record %d carries generated text", ErrValidation, o.RecordID)
		}
		return nil
	}
	if o.Title == "" || o.Description == "" || o.Summary == "" {
		return fmt.Errorf("%w: record %d", ErrIncompleteOutcome, o.RecordID)
	}
	return nil
}
