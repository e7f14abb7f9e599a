// Package service defines the interfaces shared between the storage backends and their callers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/hotelpro/internal/model"
)

// RecordStore is the contract every sales-record backend implements.
//
// Load returns the readable records in backend order. Save replaces the whole table with
// records; there is no merge, so a concurrent writer's changes are lost unless the caller
// checks for them first. Both return an error wrapping common.ErrBackendUnavailable when
// the backend is missing, locked, unreachable or misconfigured.
type RecordStore interface {
	Load(ctx context.Context) ([]model.SalesRecord, error)
	Save(ctx context.Context, records []model.SalesRecord) error
	Name() string
}

// TableLoader is implemented by stores that can report the rows Load could not read.
type TableLoader interface {
	LoadTable(ctx context.Context) (model.Table, error)
}

// LoadTable returns the full table of store, including unreadable rows when the store
// can report them.
func LoadTable(ctx context.Context, store RecordStore) (model.Table, error) {
	if tl, ok := store.(TableLoader); ok {
		return tl.LoadTable(ctx)
	}
	records, err := store.Load(ctx)
	if err != nil {
		return model.Table{}, err
	}
	return model.Table{Records: records}, nil
}

// RetryOptions configures retry behavior for remote operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
