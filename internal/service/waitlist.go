package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dodies-rest-api/internal/model"
	"dodies-rest-api/internal/repository"
	"dodies-rest-api/pkg/apierror"
	"dodies-rest-api/pkg/uid"
)

// WaitlistTableName is the table owned by the lifecycle engine.
const WaitlistTableName = "Waitlist"

// Waitlist column numbers, 1-based. The first eleven columns are the legacy
// layout; EntryID was appended to give rows an identity that survives
// position shifts.
const (
	colTimeIn = iota + 1
	colName
	colPhone
	colParty
	colNotes
	colStatus
	colTimeSeated
	colWaitMin
	colSmsOptIn
	colFutureTexts
	colSpice
	colEntryID
)

// waitlistHeader is the schema written when the table is provisioned.
var waitlistHeader = []string{
	"TimeIn", "Name", "Phone", "Party", "Notes",
	"Status", "TimeSeated", "WaitMin",
	"SmsOptIn", "FutureTexts", "Spice", "EntryID",
}

// EnsureWaitlistTable provisions the waitlist table at startup. The engine
// itself never creates it: a missing table at request time is a NotFound
// error, matching the behavior of the externally-provisioned tables.
func EnsureWaitlistTable(ctx context.Context, store repository.Store) error {
	_, err := store.EnsureTable(ctx, WaitlistTableName, waitlistHeader)
	return err
}

// WaitlistService owns the waitlist table's schema, status state machine
// and wait-time derivation.
type WaitlistService struct {
	store repository.Store
	now   func() time.Time
}

// NewWaitlistService creates a new waitlist service.
func NewWaitlistService(store repository.Store) *WaitlistService {
	return &WaitlistService{
		store: store,
		now:   time.Now,
	}
}

// JoinRequest carries the fields captured when a party joins the waitlist.
// Every field is optional; absent values stay empty rather than erroring,
// because clients depend on partial submissions succeeding.
type JoinRequest struct {
	Name        string
	Phone       string
	Party       string
	Notes       string
	SmsOptIn    string
	FutureTexts string
	SpiceLevel  string
}

// Join appends a new waitlist row with status Waiting and the arrival time
// stamped from the server clock. The spice preference is normalized onto
// the canonical set. Returns the new row's synthetic entry ID.
func (s *WaitlistService) Join(ctx context.Context, req JoinRequest) (string, error) {
	table, err := s.table(ctx)
	if err != nil {
		return "", err
	}

	id := uid.New()
	row := []string{
		model.FormatCellTime(s.now()),
		req.Name,
		req.Phone,
		req.Party,
		req.Notes,
		model.StatusWaiting,
		"", // TimeSeated is set on the first transition to Seated
		"", // WaitMin is derived on read
		req.SmsOptIn,
		req.FutureTexts,
		model.NormalizeSpice(req.SpiceLevel),
		id,
	}
	if err := table.AppendRow(ctx, row); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateStatus writes a new status into the row addressed either by its
// legacy 1-based position or by its entry ID (preferred: positions shift
// when rows move). Any status string is accepted verbatim; only "Seated"
// (case-insensitive) is special-cased: the first such transition freezes
// TimeSeated and the derived wait minutes. A row with no recorded arrival
// time is left without a computed wait.
func (s *WaitlistService) UpdateStatus(ctx context.Context, row int, entryID, newStatus string) error {
	table, err := s.table(ctx)
	if err != nil {
		return err
	}

	if entryID != "" {
		row, err = s.findByEntryID(ctx, table, entryID)
		if err != nil {
			return err
		}
	}
	if row < 2 {
		return apierror.InvalidInput("invalid row")
	}

	if err := table.SetCell(ctx, row, colStatus, newStatus); err != nil {
		return err
	}
	if !strings.EqualFold(newStatus, model.StatusSeated) {
		return nil
	}

	timeInRaw, err := table.Cell(ctx, row, colTimeIn)
	if err != nil {
		return err
	}
	seatedRaw, err := table.Cell(ctx, row, colTimeSeated)
	if err != nil {
		return err
	}

	seatedAt, ok := model.ParseCellTime(seatedRaw)
	if !ok {
		// First transition to Seated: freeze the seat time.
		seatedAt = s.now()
		if err := table.SetCell(ctx, row, colTimeSeated, model.FormatCellTime(seatedAt)); err != nil {
			return err
		}
	}

	if timeIn, ok := model.ParseCellTime(timeInRaw); ok {
		wait := strconv.Itoa(model.WaitMinutes(timeIn, seatedAt))
		if err := table.SetCell(ctx, row, colWaitMin, wait); err != nil {
			return err
		}
	}
	return nil
}

// List runs a rolling recompute over every row, then returns the entries
// that carry a name. Recompute writes derived columns during a read on
// purpose: wait times stay fresh for whoever reads next, even across
// processes sharing the store.
func (s *WaitlistService) List(ctx context.Context) ([]model.WaitlistEntry, error) {
	table, err := s.table(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := table.Rows(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := 1; i < len(rows); i++ {
		rows[i], err = s.recomputeRow(ctx, table, i+1, rows[i], now)
		if err != nil {
			return nil, err
		}
	}

	entries := make([]model.WaitlistEntry, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		cells := rows[i]
		name := cellAt(cells, colName)
		if name == "" {
			continue
		}
		waitMin, _ := strconv.Atoi(cellAt(cells, colWaitMin))
		entries = append(entries, model.WaitlistEntry{
			Row:          i + 1,
			ID:           cellAt(cells, colEntryID),
			Name:         name,
			Phone:        cellAt(cells, colPhone),
			Party:        cellAt(cells, colParty),
			SpecialNotes: cellAt(cells, colNotes),
			Status:       cellAt(cells, colStatus),
			SpiceLevel:   cellAt(cells, colSpice),
			WaitMin:      waitMin,
		})
	}
	return entries, nil
}

// recomputeRow refreshes one row's derived cells and returns the row as it
// now stands. Rows with an unrecognized status or no parseable arrival time
// are left untouched.
func (s *WaitlistService) recomputeRow(ctx context.Context, table repository.Table, rowNum int, cells []string, now time.Time) ([]string, error) {
	timeIn, ok := model.ParseCellTime(cellAt(cells, colTimeIn))
	if !ok {
		return cells, nil
	}

	switch strings.ToLower(cellAt(cells, colStatus)) {
	case "waiting", "notified":
		wait := strconv.Itoa(model.WaitMinutes(timeIn, now))
		if err := table.SetCell(ctx, rowNum, colWaitMin, wait); err != nil {
			return nil, err
		}
		cells = setCellAt(cells, colWaitMin, wait)

	case "seated":
		seatedAt, ok := model.ParseCellTime(cellAt(cells, colTimeSeated))
		if !ok {
			// Seated without a seat time (e.g. edited out of band):
			// default it to now and persist the default.
			seatedAt = now
			stamp := model.FormatCellTime(seatedAt)
			if err := table.SetCell(ctx, rowNum, colTimeSeated, stamp); err != nil {
				return nil, err
			}
			cells = setCellAt(cells, colTimeSeated, stamp)
		}
		wait := strconv.Itoa(model.WaitMinutes(timeIn, seatedAt))
		if err := table.SetCell(ctx, rowNum, colWaitMin, wait); err != nil {
			return nil, err
		}
		cells = setCellAt(cells, colWaitMin, wait)
	}
	return cells, nil
}

// findByEntryID resolves an entry ID to its current 1-based row position.
func (s *WaitlistService) findByEntryID(ctx context.Context, table repository.Table, entryID string) (int, error) {
	rows, err := table.Rows(ctx)
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(rows); i++ {
		if cellAt(rows[i], colEntryID) == entryID {
			return i + 1, nil
		}
	}
	return 0, apierror.NotFound("waitlist entry not found: " + entryID)
}

func (s *WaitlistService) table(ctx context.Context) (repository.Table, error) {
	table, err := s.store.Table(ctx, WaitlistTableName)
	if err == repository.ErrTableNotFound {
		return nil, apierror.NotFound(fmt.Sprintf("table not found: %q", WaitlistTableName))
	}
	return table, err
}

// cellAt reads a 1-based column from a row, tolerating short rows.
func cellAt(cells []string, col int) string {
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// setCellAt writes a 1-based column into a row copy, growing it as needed.
func setCellAt(cells []string, col int, value string) []string {
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	return cells
}
