package storage

import (
	"context"
	"sync"

	"github.com/Veraticus/hotelpro/internal/model"
)

// MockStore is an in-memory service.RecordStore for tests and demos.
type MockStore struct {
	LoadFunc   func(ctx context.Context) ([]model.SalesRecord, error)
	SaveFunc   func(ctx context.Context, records []model.SalesRecord) error
	records    []model.SalesRecord
	unreadable []model.UnreadableRow
	SaveCalls  []SaveCall
	LoadCalls  int
	SaveCount  int
	mu         sync.Mutex
}

// SaveCall represents a single call to Save.
type SaveCall struct {
	Error   error
	Records []model.SalesRecord
}

// NewMockStore creates a mock store holding a copy of records.
func NewMockStore(records []model.SalesRecord) *MockStore {
	return &MockStore{
		records:   model.CloneRecords(records),
		SaveCalls: make([]SaveCall, 0),
	}
}

// Name implements service.RecordStore.
func (m *MockStore) Name() string {
	return "memory"
}

// Load implements service.RecordStore.
func (m *MockStore) Load(ctx context.Context) ([]model.SalesRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return model.CloneRecords(m.records), nil
}

// LoadTable implements service.TableLoader.
func (m *MockStore) LoadTable(ctx context.Context) (model.Table, error) {
	records, err := m.Load(ctx)
	if err != nil {
		return model.Table{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Table{
		Records:    records,
		Unreadable: append([]model.UnreadableRow(nil), m.unreadable...),
	}, nil
}

// Save implements service.RecordStore.
func (m *MockStore) Save(ctx context.Context, records []model.SalesRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCount++

	var err error
	if m.SaveFunc != nil {
		err = m.SaveFunc(ctx, records)
	}
	if err == nil {
		m.records = model.CloneRecords(records)
		m.unreadable = nil
	}

	m.SaveCalls = append(m.SaveCalls, SaveCall{
		Records: model.CloneRecords(records),
		Error:   err,
	})
	return err
}

// SetUnreadable stores rows that LoadTable reports as unreadable until the next Save.
func (m *MockStore) SetUnreadable(rows ...model.UnreadableRow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unreadable = rows
}

// SetSaveError configures the mock to fail every Save with err.
func (m *MockStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveFunc = func(_ context.Context, _ []model.SalesRecord) error {
		return err
	}
}

// SetLoadError configures the mock to fail every Load with err.
func (m *MockStore) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadFunc = func(_ context.Context) ([]model.SalesRecord, error) {
		return nil, err
	}
}

// Records returns a copy of the stored records.
func (m *MockStore) Records() []model.SalesRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	return model.CloneRecords(m.records)
}

// GetSaveCalls returns a copy of all save calls.
func (m *MockStore) GetSaveCalls() []SaveCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]SaveCall, len(m.SaveCalls))
	copy(calls, m.SaveCalls)
	return calls
}
