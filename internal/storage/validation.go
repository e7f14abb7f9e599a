// Package storage provides the local sales-record backends: xlsx workbooks and SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/hotelpro/internal/common"
	"github.com/Veraticus/hotelpro/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// ValidateRecords checks that every record can be written. An empty slice is valid and
// clears the backend.
func ValidateRecords(records []model.SalesRecord) error {
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRecord only checks what type coercion guarantees; revenue sign and room type
// contents are not validated.
func validateRecord(r model.SalesRecord) error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: missing date", common.ErrInvalidRecord)
	}
	if math.IsNaN(r.Revenue) || math.IsInf(r.Revenue, 0) {
		return fmt.Errorf("%w: revenue is not a finite number", common.ErrInvalidRecord)
	}
	return nil
}
