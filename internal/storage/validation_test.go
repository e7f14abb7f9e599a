package storage

import (
	"context"
	"math"
	"testing"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{name: "valid context", ctx: context.Background(), wantErr: false},
		{name: "nil context", ctx: nil, wantErr: true},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []model.SalesRecord
		wantErr bool
	}{
		{name: "nil slice clears backend", records: nil},
		{name: "valid records", records: sampleRecords()},
		{name: "negative revenue is not validated", records: []model.SalesRecord{{Date: day("2024-01-01"), Revenue: -10}}},
		{name: "empty room type is not validated", records: []model.SalesRecord{{Date: day("2024-01-01")}}},
		{name: "missing date", records: []model.SalesRecord{{RoomType: "Suite", Revenue: 10}}, wantErr: true},
		{name: "NaN revenue", records: []model.SalesRecord{{Date: day("2024-01-01"), Revenue: math.NaN()}}, wantErr: true},
		{name: "infinite revenue", records: []model.SalesRecord{{Date: day("2024-01-01"), Revenue: math.Inf(1)}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecords(tt.records)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
