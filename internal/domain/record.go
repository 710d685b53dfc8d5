package domain

import (
	"fmt"
	"time"
)

// Record is the entity being rewritten: a title and description pair
// identified by a numeric ID.
type Record struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks that the record carries a usable identifier.
// Title and description may be empty in storage; the title stage copes with that.
func (r *Record) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: record %d", ErrInvalidID, r.ID)
	}
	return nil
}
