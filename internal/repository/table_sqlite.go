package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"dodies-rest-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore implements Store on a SQLite file, persisting each named
// table as a (table, row, col, value) cell grid.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite grid store.
// dbPath is the path to the SQLite database file (e.g., "./data/foh.db")
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Open with WAL mode and other optimizations
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite connection pool settings
	db.SetMaxOpenConns(1) // SQLite only supports 1 writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0) // Keep connection alive

	if err := createSQLiteGrid(db); err != nil {
		return nil, fmt.Errorf("failed to create grid schema: %w", err)
	}

	log.Printf("[SQLiteStore] Initialized with database: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

// createSQLiteGrid creates the grid schema.
func createSQLiteGrid(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS grid_tables (
		name TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS grid_cells (
		table_name TEXT NOT NULL,
		row_num INTEGER NOT NULL,
		col_num INTEGER NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (table_name, row_num, col_num)
	);
	CREATE INDEX IF NOT EXISTS idx_grid_cells_row ON grid_cells(table_name, row_num);
	`
	_, err := db.Exec(query)
	return err
}

// Table returns a handle to an existing table.
func (s *SQLiteStore) Table(ctx context.Context, name string) (Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM grid_tables WHERE name = ?`, name).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to look up table %q: %w", name, err)
	}
	return &sqliteTable{store: s, name: name}, nil
}

// EnsureTable returns a handle to the named table, creating it with the
// header row when absent.
func (s *SQLiteStore) EnsureTable(ctx context.Context, name string, header []string) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO grid_tables (name, created_at) VALUES (?, datetime('now'))
		 ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure table %q: %w", name, err)
	}

	created, _ := res.RowsAffected()
	if created > 0 {
		for i, cell := range header {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO grid_cells (table_name, row_num, col_num, value) VALUES (?, 1, ?, ?)`,
				name, i+1, cell); err != nil {
				return nil, fmt.Errorf("failed to write header for %q: %w", name, err)
			}
		}
		log.Printf("[SQLiteStore] Created table %q with %d header columns", name, len(header))
	}
	return &sqliteTable{store: s, name: name}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteTable is a live handle to one named grid inside a SQLiteStore.
type sqliteTable struct {
	store *SQLiteStore
	name  string
}

// Name returns the table name.
func (t *sqliteTable) Name() string {
	return t.name
}

// Rows returns every row in order, header first. Row width is the widest
// column seen anywhere in the table, so ragged rows come back padded.
func (t *sqliteTable) Rows(ctx context.Context) ([][]string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	return scanGridRows(ctx, t.store.db, t.name)
}

// Records returns the data rows zipped with the case-folded header.
func (t *sqliteTable) Records(ctx context.Context) ([]model.Record, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

// Cell reads a single cell; unset addresses read as empty.
func (t *sqliteTable) Cell(ctx context.Context, row, col int) (string, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var value string
	err := t.store.db.QueryRowContext(ctx,
		`SELECT value FROM grid_cells WHERE table_name = ? AND row_num = ? AND col_num = ?`,
		t.name, row, col).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to read cell (%d,%d) of %q: %w", row, col, t.name, err)
	}
	return value, nil
}

// SetCell writes a single cell, implicitly extending the grid.
func (t *sqliteTable) SetCell(ctx context.Context, row, col int, value string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	_, err := t.store.db.ExecContext(ctx,
		`INSERT INTO grid_cells (table_name, row_num, col_num, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(table_name, row_num, col_num) DO UPDATE SET value = excluded.value`,
		t.name, row, col, value)
	if err != nil {
		return fmt.Errorf("failed to set cell (%d,%d) of %q: %w", row, col, t.name, err)
	}
	return nil
}

// AppendRow adds a row after the last occupied row.
func (t *sqliteTable) AppendRow(ctx context.Context, values []string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lastRow int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM grid_cells WHERE table_name = ?`,
		t.name).Scan(&lastRow); err != nil {
		return fmt.Errorf("failed to find last row of %q: %w", t.name, err)
	}

	for i, cell := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO grid_cells (table_name, row_num, col_num, value) VALUES (?, ?, ?, ?)`,
			t.name, lastRow+1, i+1, cell); err != nil {
			return fmt.Errorf("failed to append row to %q: %w", t.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append to %q: %w", t.name, err)
	}
	return nil
}

// scanGridRows reads a full grid into ordered rows; shared by the SQLite
// and MySQL backends (identical query shape).
func scanGridRows(ctx context.Context, db *sql.DB, name string) ([][]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT row_num, col_num, value FROM grid_cells WHERE table_name = ? ORDER BY row_num, col_num`,
		name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", name, err)
	}
	defer rows.Close()

	var maxRow, maxCol int
	type cell struct {
		row, col int
		value    string
	}
	var cells []cell
	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.row, &c.col, &c.value); err != nil {
			return nil, fmt.Errorf("failed to scan cell of %q: %w", name, err)
		}
		if c.row > maxRow {
			maxRow = c.row
		}
		if c.col > maxCol {
			maxCol = c.col
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cells of %q: %w", name, err)
	}

	grid := make([][]string, maxRow)
	for i := range grid {
		grid[i] = make([]string, maxCol)
	}
	for _, c := range cells {
		grid[c.row-1][c.col-1] = c.value
	}
	return grid, nil
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
