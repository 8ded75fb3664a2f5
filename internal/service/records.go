package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"dodies-rest-api/internal/model"
	"dodies-rest-api/internal/repository"
)

// TableSpec describes one auxiliary table: its name and the header written
// when the table is auto-created on first write.
type TableSpec struct {
	Name   string
	Header []string
}

// Auto-created auxiliary tables.
var (
	ShoutoutsTable = TableSpec{"Shoutouts", []string{"Timestamp", "Staff", "Reasons", "Message", "From"}}
	FeedbackTable  = TableSpec{"Feedback", []string{"Timestamp", "Rating", "Text", "Categories", "From", "Email", "Sentiment"}}
	ChatLogsTable  = TableSpec{"ChatLogs", []string{"Timestamp", "Question", "Sentiment"}}
	LeadsTable     = TableSpec{"Leads", []string{"Timestamp", "Contact Name", "Role", "Email", "Phone", "Restaurant", "City", "Cuisine", "Capacity", "Biggest Pain", "Plan"}}
)

// Externally-provisioned tables read by name.
const (
	SpecialsTableName = "Specials"
	VIPsTableName     = "VIPs"
)

// everyDay marks a special served regardless of weekday.
const everyDay = "Every Day"

// RecordService implements the generic read/append contract shared by the
// auxiliary tables. Record shapes follow each table's header row; nothing
// beyond the documented creation defaults is hard-coded.
type RecordService struct {
	store repository.Store
	loc   *time.Location
	now   func() time.Time
}

// NewRecordService creates a new record service. loc is the restaurant's
// timezone, used to pick the weekday for daily specials.
func NewRecordService(store repository.Store, loc *time.Location) *RecordService {
	if loc == nil {
		loc = time.UTC
	}
	return &RecordService{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// Append adds one record to the table, creating the table with its default
// header when absent. The server timestamp is prepended to the values.
func (s *RecordService) Append(ctx context.Context, spec TableSpec, values []string) error {
	table, err := s.store.EnsureTable(ctx, spec.Name, spec.Header)
	if err != nil {
		return err
	}
	row := append([]string{s.now().UTC().Format(time.RFC3339)}, values...)
	return table.AppendRow(ctx, row)
}

// List returns every record of the named table. An absent table yields an
// empty list, not an error: read endpoints work before the first write.
func (s *RecordService) List(ctx context.Context, name string) ([]model.Record, error) {
	table, err := s.store.Table(ctx, name)
	if err == repository.ErrTableNotFound {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	return table.Records(ctx)
}

// Specials returns the specials on offer today: rows whose Day column
// matches the current weekday in the restaurant's timezone, or "Every Day".
func (s *RecordService) Specials(ctx context.Context) ([]model.Record, error) {
	records, err := s.List(ctx, SpecialsTableName)
	if err != nil {
		return nil, err
	}

	today := s.now().In(s.loc).Weekday().String()
	todays := make([]model.Record, 0, len(records))
	for _, rec := range records {
		day := strings.TrimSpace(rec["day"])
		if day == today || day == everyDay {
			todays = append(todays, rec)
		}
	}
	return todays, nil
}

// VIPs returns every VIP record sorted descending by visit count. A missing
// or non-numeric Visits cell counts as zero; ties keep their table order.
func (s *RecordService) VIPs(ctx context.Context) ([]model.Record, error) {
	records, err := s.List(ctx, VIPsTableName)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].NumberOr("visits", 0) > records[j].NumberOr("visits", 0)
	})
	return records, nil
}
