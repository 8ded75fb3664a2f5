package repository

import (
	"context"
	"strings"

	"dodies-rest-api/internal/model"
)

// StoreError is a sentinel error type for store-level failures.
type StoreError string

func (e StoreError) Error() string { return string(e) }

const (
	// ErrTableNotFound indicates the named table does not exist.
	ErrTableNotFound StoreError = "table not found"
)

// Store provides uniform access to named tables backed by a 2-D grid of
// cells. This abstraction allows swapping between the in-memory grid
// (development/testing), SQLite and MySQL without changing business logic.
type Store interface {
	// Table returns a handle to an existing table.
	// Returns ErrTableNotFound if it does not exist.
	Table(ctx context.Context, name string) (Table, error)

	// EnsureTable returns a handle to the named table, creating it with the
	// given header row when absent. Idempotent: an existing table is
	// returned untouched regardless of its current header.
	EnsureTable(ctx context.Context, name string, header []string) (Table, error)

	// Close releases the underlying store connection.
	Close() error
}

// Table is a live handle to one named grid. Rows and columns are 1-based;
// row 1 is the header row.
type Table interface {
	// Name returns the table name.
	Name() string

	// Rows returns every row in order. Index 0 holds the header row.
	Rows(ctx context.Context) ([][]string, error)

	// Records zips the case-folded header with each data row's cell at the
	// same column index. A table with no data rows yields an empty slice.
	Records(ctx context.Context) ([]model.Record, error)

	// Cell reads a single cell. Unset cells read as the empty string.
	Cell(ctx context.Context, row, col int) (string, error)

	// SetCell writes a single cell, extending the grid when the address
	// lies beyond the current bounds.
	SetCell(ctx context.Context, row, col int, value string) error

	// AppendRow adds a row after the last occupied row.
	AppendRow(ctx context.Context, values []string) error
}

// recordsFromRows builds header-keyed records from raw rows, shared by all
// backends. Header cells are case-folded; a duplicate header name keeps the
// last column, matching position-zipped semantics.
func recordsFromRows(rows [][]string) []model.Record {
	if len(rows) < 2 {
		return []model.Record{}
	}

	header := rows[0]
	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(model.Record, len(header))
		for i, name := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec[strings.ToLower(name)] = value
		}
		records = append(records, rec)
	}
	return records
}
