package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"dodies-rest-api/internal/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLStore implements Store on MySQL, for deployments where several
// front-of-house instances share one grid.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL grid store.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createMySQLGrid(db); err != nil {
		return nil, fmt.Errorf("failed to create grid schema: %w", err)
	}

	log.Printf("[MySQLStore] Initialized")
	return &MySQLStore{db: db}, nil
}

// createMySQLGrid creates the grid schema.
func createMySQLGrid(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS grid_tables (
			name VARCHAR(64) PRIMARY KEY,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grid_cells (
			table_name VARCHAR(64) NOT NULL,
			row_num INT NOT NULL,
			col_num INT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (table_name, row_num, col_num)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Table returns a handle to an existing table.
func (s *MySQLStore) Table(ctx context.Context, name string) (Table, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM grid_tables WHERE name = ?`, name).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to look up table %q: %w", name, err)
	}
	return &mysqlTable{store: s, name: name}, nil
}

// EnsureTable returns a handle to the named table, creating it with the
// header row when absent.
func (s *MySQLStore) EnsureTable(ctx context.Context, name string, header []string) (Table, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT IGNORE INTO grid_tables (name, created_at) VALUES (?, NOW())`, name)
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
		log.Printf("[MySQLStore] Created table %q with %d header columns", name, len(header))
	}
	return &mysqlTable{store: s, name: name}, nil
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// mysqlTable is a live handle to one named grid inside a MySQLStore.
type mysqlTable struct {
	store *MySQLStore
	name  string
}

// Name returns the table name.
func (t *mysqlTable) Name() string {
	return t.name
}

// Rows returns every row in order, header first.
func (t *mysqlTable) Rows(ctx context.Context) ([][]string, error) {
	return scanGridRows(ctx, t.store.db, t.name)
}

// Records returns the data rows zipped with the case-folded header.
func (t *mysqlTable) Records(ctx context.Context) ([]model.Record, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

// Cell reads a single cell; unset addresses read as empty.
func (t *mysqlTable) Cell(ctx context.Context, row, col int) (string, error) {
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
func (t *mysqlTable) SetCell(ctx context.Context, row, col int, value string) error {
	_, err := t.store.db.ExecContext(ctx,
		`INSERT INTO grid_cells (table_name, row_num, col_num, value) VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		t.name, row, col, value)
	if err != nil {
		return fmt.Errorf("failed to set cell (%d,%d) of %q: %w", row, col, t.name, err)
	}
	return nil
}

// AppendRow adds a row after the last occupied row.
func (t *mysqlTable) AppendRow(ctx context.Context, values []string) error {
	tx, err := t.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lastRow int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(row_num), 0) FROM grid_cells WHERE table_name = ? FOR UPDATE`,
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

// Ensure MySQLStore implements Store
var _ Store = (*MySQLStore)(nil)
