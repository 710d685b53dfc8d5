package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rewriter/internal/domain"
	"github.com/phrazzld/rewriter/internal/store"
)

// RecordUpdate captures one UpdateRecord call.
type RecordUpdate struct {
	ID          int64
	Title       string
	Description string
	UpdatedAt   time.Time
}

// SummaryUpsert captures one UpsertSummary call.
type SummaryUpsert struct {
	RecordID int64
	Summary  string
}

// RecordStore implements store.RecordStore for testing.
type RecordStore struct {
	ListRecordsFn  func(ctx context.Context, filter store.RecordFilter) ([]domain.Record, error)
	GetByIDFn      func(ctx context.Context, id int64) (*domain.Record, error)
	UpdateRecordFn func(ctx context.Context, id int64, title, description string, updatedAt time.Time) error

	mu      sync.Mutex
	filters []store.RecordFilter
	updates []RecordUpdate
}

// ListRecords implements store.RecordStore.
func (m *RecordStore) ListRecords(ctx context.Context, filter store.RecordFilter) ([]domain.Record, error) {
	m.mu.Lock()
	m.filters = append(m.filters, filter)
	m.mu.Unlock()

	if m.ListRecordsFn != nil {
		return m.ListRecordsFn(ctx, filter)
	}
	return nil, nil
}

// GetByID implements store.RecordStore.
func (m *RecordStore) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrRecordNotFound
}

// UpdateRecord implements store.RecordStore.
func (m *RecordStore) UpdateRecord(
	ctx context.Context,
	id int64,
	title, description string,
	updatedAt time.Time,
) error {
	m.mu.Lock()
	m.updates = append(m.updates, RecordUpdate{ID: id, Title: title, Description: description, UpdatedAt: updatedAt})
	m.mu.Unlock()

	if m.UpdateRecordFn != nil {
		return m.UpdateRecordFn(ctx, id, title, description, updatedAt)
	}
	return nil
}

// WithTx implements store.RecordStore; the mock ignores the transaction.
func (m *RecordStore) WithTx(tx *sql.Tx) store.RecordStore {
	return m
}

// Filters returns the filters passed to ListRecords.
func (m *RecordStore) Filters() []store.RecordFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.RecordFilter(nil), m.filters...)
}

// Updates returns the UpdateRecord calls received so far.
func (m *RecordStore) Updates() []RecordUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordUpdate(nil), m.updates...)
}

// SummaryStore implements store.SummaryStore for testing.
type SummaryStore struct {
	UpsertSummaryFn func(ctx context.Context, recordID int64, summary string) error
	GetByRecordIDFn func(ctx context.Context, recordID int64) (*domain.Summary, error)

	mu      sync.Mutex
	upserts []SummaryUpsert
}

// UpsertSummary implements store.SummaryStore.
func (m *SummaryStore) UpsertSummary(ctx context.Context, recordID int64, summary string) error {
	m.mu.Lock()
	m.upserts = append(m.upserts, SummaryUpsert{RecordID: recordID, Summary: summary})
	m.mu.Unlock()

	if m.UpsertSummaryFn != nil {
		return m.UpsertSummaryFn(ctx, recordID, summary)
	}
	return nil
}

// GetByRecordID implements store.SummaryStore.
func (m *SummaryStore) GetByRecordID(ctx context.Context, recordID int64) (*domain.Summary, error) {
	if m.GetByRecordIDFn != nil {
		return m.GetByRecordIDFn(ctx, recordID)
	}
	return nil, store.ErrSummaryNotFound
}

// WithTx implements store.SummaryStore; the mock ignores the transaction.
func (m *SummaryStore) WithTx(tx *sql.Tx) store.SummaryStore {
	return m
}

// Upserts returns the UpsertSummary calls received so far.
func (m *SummaryStore) Upserts() []SummaryUpsert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SummaryUpsert(nil), m.upserts...)
}

// RunStore is an in-memory store.RunStore for testing.
type RunStore struct {
	// Err, when set, is returned from every method.
	Err error

	mu   sync.Mutex
	runs map[uuid.UUID]domain.Run
}

// Create implements store.RunStore.
func (m *RunStore) Create(ctx context.Context, run *domain.Run) error {
	return m.put(run)
}

// Update implements store.RunStore.
func (m *RunStore) Update(ctx context.Context, run *domain.Run) error {
	m.mu.Lock()
	_, ok := m.runs[run.ID]
	m.mu.Unlock()
	if m.Err == nil && !ok {
		return store.ErrRunNotFound
	}
	return m.put(run)
}

// GetByID implements store.RunStore.
func (m *RunStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, store.ErrRunNotFound
	}
	return &run, nil
}

func (m *RunStore) put(run *domain.Run) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = make(map[uuid.UUID]domain.Run)
	}
	m.runs[run.ID] = *run
	return nil
}

// Runs returns a copy of every stored run, in no particular order.
func (m *RunStore) Runs() []domain.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Run, 0, len(m.runs))
	for _, run := range m.runs {
		out = append(out, run)
	}
	return out
}
