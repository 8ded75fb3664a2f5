package repository

import (
	"context"
	"sync"

	"dodies-rest-api/internal/model"
)

// MemoryStore is an in-process implementation of Store.
// Use this for development/testing or single-instance deployments that do
// not need the grid to survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	grids map[string][][]string
}

// NewMemoryStore creates an empty in-memory grid store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grids: make(map[string][][]string),
	}
}

// Table returns a handle to an existing table.
func (s *MemoryStore) Table(ctx context.Context, name string) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.grids[name]; !ok {
		return nil, ErrTableNotFound
	}
	return &memoryTable{store: s, name: name}, nil
}

// EnsureTable returns a handle to the named table, creating it with the
// header row when absent.
func (s *MemoryStore) EnsureTable(ctx context.Context, name string, header []string) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.grids[name]; !ok {
		s.grids[name] = [][]string{copyRow(header)}
	}
	return &memoryTable{store: s, name: name}, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// memoryTable is a live handle to one named grid inside a MemoryStore.
type memoryTable struct {
	store *MemoryStore
	name  string
}

// Name returns the table name.
func (t *memoryTable) Name() string {
	return t.name
}

// Rows returns a copy of every row, header first.
func (t *memoryTable) Rows(ctx context.Context) ([][]string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	grid, ok := t.store.grids[t.name]
	if !ok {
		return nil, ErrTableNotFound
	}

	rows := make([][]string, len(grid))
	for i, row := range grid {
		rows[i] = copyRow(row)
	}
	return rows, nil
}

// Records returns the data rows zipped with the case-folded header.
func (t *memoryTable) Records(ctx context.Context) ([]model.Record, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

// Cell reads a single cell; addresses beyond the grid read as empty.
func (t *memoryTable) Cell(ctx context.Context, row, col int) (string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	grid, ok := t.store.grids[t.name]
	if !ok {
		return "", ErrTableNotFound
	}
	if row < 1 || row > len(grid) {
		return "", nil
	}
	cells := grid[row-1]
	if col < 1 || col > len(cells) {
		return "", nil
	}
	return cells[col-1], nil
}

// SetCell writes a single cell, growing the grid as needed.
func (t *memoryTable) SetCell(ctx context.Context, row, col int, value string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	grid, ok := t.store.grids[t.name]
	if !ok {
		return ErrTableNotFound
	}

	for len(grid) < row {
		grid = append(grid, []string{})
	}
	cells := grid[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	grid[row-1] = cells
	t.store.grids[t.name] = grid
	return nil
}

// AppendRow adds a row after the last occupied row.
func (t *memoryTable) AppendRow(ctx context.Context, values []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	grid, ok := t.store.grids[t.name]
	if !ok {
		return ErrTableNotFound
	}
	t.store.grids[t.name] = append(grid, copyRow(values))
	return nil
}

func copyRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
