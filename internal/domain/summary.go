package domain

import (
	"fmt"
	"time"
)

// Summary is the generated synopsis of a record. There is at most one
// summary per record; writes replace the previous text.
type Summary struct {
	RecordID  int64     `json:"record_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSummary builds a validated Summary for the given record, stamped at now.
func NewSummary(recordID int64, text string, now time.Time) (*Summary, error) {
	now = now.UTC()
	s := &Summary{
		RecordID:  recordID,
		Summary:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the Summary has valid data.
func (s *Summary) Validate() error {
	if s.RecordID <= 0 {
		return fmt.Errorf("%w: record %d", ErrInvalidID, s.RecordID)
	}
	if s.Summary == "" {
		return fmt.Errorf("%w: summary", ErrEmptyContent)
	}
	return nil
}
