package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dodies-rest-api/internal/cache"
	"dodies-rest-api/internal/model"
	"dodies-rest-api/internal/repository"
)

func newRecordFixture(t *testing.T) (*RecordService, repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewRecordService(store, time.UTC)
	svc.now = func() time.Time { return tuesdayNoon }
	return svc, store
}

func seedTable(t *testing.T, store repository.Store, name string, header []string, rows ...[]string) {
	t.Helper()
	ctx := context.Background()
	table, err := store.EnsureTable(ctx, name, header)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, table.AppendRow(ctx, row))
	}
}

func TestAppendPrependsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, store := newRecordFixture(t)

	require.NoError(t, svc.Append(ctx, ShoutoutsTable, []string{"Rosa", "hustle", "carried the rush", "Anonymous"}))

	table, err := store.Table(ctx, "Shoutouts")
	require.NoError(t, err)
	rows, err := table.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ShoutoutsTable.Header, rows[0])
	assert.Equal(t, tuesdayNoon.UTC().Format(time.RFC3339), rows[1][0])
	assert.Equal(t, "Rosa", rows[1][1])
}

func TestListAbsentTableIsEmpty(t *testing.T) {
	svc, _ := newRecordFixture(t)

	records, err := svc.List(context.Background(), "Feedback")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSpecialsFiltersByWeekday(t *testing.T) {
	svc, store := newRecordFixture(t)
	seedTable(t, store, SpecialsTableName,
		[]string{"Day", "Icon", "Name", "Description", "Price", "OrigPrice", "Savings", "Type", "Availability"},
		[]string{"Tuesday", "🦐", "Shrimp Basket", "half off", "7.99", "15.98", "50%", "food", "all day"},
		[]string{"Monday", "🦀", "Crab Boil", "", "19.99", "", "", "food", ""},
		[]string{"Every Day", "🍺", "Happy Hour", "", "3.00", "", "", "drink", "3-6pm"},
		[]string{" Tuesday ", "", "Oyster Deal", "", "12.00", "", "", "food", ""},
	)

	// The fixture clock is a Tuesday.
	specials, err := svc.Specials(context.Background())
	require.NoError(t, err)
	require.Len(t, specials, 3)
	assert.Equal(t, "Shrimp Basket", specials[0]["name"])
	assert.Equal(t, "Happy Hour", specials[1]["name"])
	assert.Equal(t, "Oyster Deal", specials[2]["name"])
}

func TestVIPsSortedByVisitsDescending(t *testing.T) {
	svc, store := newRecordFixture(t)
	seedTable(t, store, VIPsTableName,
		[]string{"Name", "Visits", "LastVisit", "Favorite", "TotalSpent"},
		[]string{"Casual", "abc", "", "", ""},
		[]string{"Regular", "12", "", "", ""},
		[]string{"Newcomer", "", "", "", ""},
		[]string{"Champion", "48", "", "", ""},
	)

	vips, err := svc.VIPs(context.Background())
	require.NoError(t, err)
	require.Len(t, vips, 4)
	assert.Equal(t, "Champion", vips[0]["name"])
	assert.Equal(t, "Regular", vips[1]["name"])
	// Non-numeric and missing visit counts sort as zero, keeping their
	// original order (stable sort).
	assert.Equal(t, "Casual", vips[2]["name"])
	assert.Equal(t, "Newcomer", vips[3]["name"])
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewDashboardService(store)

	seedTable(t, store, ChatLogsTable.Name, ChatLogsTable.Header,
		[]string{"t1", "hours?", "neutral"},
		[]string{"t2", "parking?", "neutral"},
	)
	seedTable(t, store, ShoutoutsTable.Name, ShoutoutsTable.Header,
		[]string{"t1", "Rosa", "hustle", "", "Anonymous"},
	)
	seedTable(t, store, FeedbackTable.Name, FeedbackTable.Header,
		[]string{"t1", "4", "", "", "", "", "neutral"},
		[]string{"t2", "5", "", "", "", "", "positive"},
	)
	seedTable(t, store, WaitlistTableName, waitlistHeader,
		[]string{"t", "Sam", "", "", "", "Waiting", "", "", "", "", "", ""},
		[]string{"t", "Rosa", "", "", "", "seated", "", "", "", "", "", ""},
		[]string{"t", "Lee", "", "", "", "Seated", "", "", "", "", "", ""},
	)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{
		TotalChats:     2,
		TotalShoutouts: 1,
		TotalFeedback:  2,
		AvgRating:      4.5,
		TotalWaitlist:  3,
		Seated:         2,
	}, stats)
}

func TestDashboardStatsDefaultsToZero(t *testing.T) {
	svc := NewDashboardService(repository.NewMemoryStore())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{}, stats)
}

func TestInventoryBoardProjection(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewInventoryService(store, nil, 0)

	// Absent table reads as an empty board.
	items, err := svc.Board(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	seedTable(t, store, InventoryTableName,
		[]string{"Item", "Status", "Price", "LastUpdated"},
		[]string{"Crawfish", "In", "8.99/lb", "2026-03-03"},
		[]string{"", "ignored", "", ""},
		[]string{"Oysters", "Low", "14.00/dz", "2026-03-02"},
	)

	items, err = svc.Board(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.InventoryItem{Item: "Crawfish", Status: "In", Price: "8.99/lb", LastUpdated: "2026-03-03"}, items[0])
	assert.Equal(t, "Oysters", items[1].Item)
}

func TestInventoryBoardCaching(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	svc := NewInventoryService(store, c, time.Minute)

	seedTable(t, store, InventoryTableName,
		[]string{"Item", "Status", "Price", "LastUpdated"},
		[]string{"Crawfish", "In", "8.99/lb", "2026-03-03"},
	)

	items, err := svc.Board(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// A write to the table is invisible until the cache entry expires.
	table, err := store.Table(ctx, InventoryTableName)
	require.NoError(t, err)
	require.NoError(t, table.AppendRow(ctx, []string{"Oysters", "In", "14.00/dz", "2026-03-03"}))

	items, err = svc.Board(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, c.Clear(ctx))
	items, err = svc.Board(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
