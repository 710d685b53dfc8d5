package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeValidate(t *testing.T) {
	t.Parallel()

	t.Run("complete success", func(t *testing.T) {
		o := Success(1, "New House", "A lovely renovated home", "Charming home.")
		assert.True(t, o.Succeeded())
		assert.NoError(t, o.Validate())
	})

	t.Run("success with empty field", func(t *testing.T) {
		o := Success(1, "New House", "", "Charming home.")
		assert.ErrorIs(t, o.Validate(), ErrIncompleteOutcome)
	})

	t.Run("failure carries no text", func(t *testing.T) {
		o := Failure(2, StageTitle, errors.New("boom"))
		assert.False(t, o.Succeeded())
		assert.Equal(t, StageTitle, o.FailedStage)
		assert.NoError(t, o.Validate())
	})

	t.Run("failure without cause still fails", func(t *testing.T) {
		o := Failure(2, StageSummary, nil)
		assert.False(t, o.Succeeded())
		assert.Contains(t, o.Err.Error(), "summary")
	})

	t.Run("invalid record id", func(t *testing.T) {
		o := Success(0, "a", "b", "c")
		assert.ErrorIs(t, o.Validate(), ErrInvalidID)
	})
}

func TestNewSummary(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2025, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	s, err := NewSummary(7, "Short and sweet.", stamp)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), s.RecordID)
	assert.Equal(t, time.UTC, s.CreatedAt.Location())
	assert.True(t, stamp.Equal(s.UpdatedAt))

	_, err = NewSummary(7, "", stamp)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewSummary(-1, "text", stamp)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestRunFinish(t *testing.T) {
	t.Parallel()

	r := NewRun()
	assert.Equal(t, RunStatusRunning, r.Status)

	r.Finish(3, 2, 1, 0, "")
	assert.Equal(t, RunStatusCompleted, r.Status)
	assert.NotNil(t, r.FinishedAt)

	r2 := NewRun()
	r2.Finish(0, 0, 0, 0, "load records: connection refused")
	assert.Equal(t, RunStatusFailed, r2.Status)
}
