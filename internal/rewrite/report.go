package rewrite

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Report summarizes one batch run.
type Report struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time

	// Total is the number of records in the snapshot.
	Total int

	// Updated, Skipped and PersistFailed always add up to Total.
	Updated       int
	Skipped       int
	PersistFailed int

	// errs collects the persistence errors of the run.
	errs *multierror.Error
}

// PersistenceErrors returns the combined persistence errors, or nil.
func (r *Report) PersistenceErrors() error {
	return r.errs.ErrorOrNil()
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) addPersistError(err error) {
	r.PersistFailed++
	r.errs = multierror.Append(r.errs, err)
}
