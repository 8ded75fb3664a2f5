package service

import (
	"context"
	"math"
	"strings"

	"dodies-rest-api/internal/model"
	"dodies-rest-api/internal/repository"
)

// DashboardService computes the owner dashboard aggregates. Every
// sub-aggregate falls back to zero independently when its source table is
// absent or empty; a half-provisioned store still gets a dashboard.
type DashboardService struct {
	store repository.Store
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Stats returns the dashboard aggregate.
func (s *DashboardService) Stats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats

	stats.TotalChats = s.countRows(ctx, ChatLogsTable.Name)
	stats.TotalShoutouts = s.countRows(ctx, ShoutoutsTable.Name)

	if records, err := s.records(ctx, FeedbackTable.Name); err == nil && len(records) > 0 {
		var sum float64
		for _, rec := range records {
			sum += rec.NumberOr("rating", 0)
		}
		stats.TotalFeedback = len(records)
		stats.AvgRating = math.Round(sum/float64(len(records))*10) / 10
	}

	if rows, err := s.rows(ctx, WaitlistTableName); err == nil && len(rows) > 1 {
		stats.TotalWaitlist = len(rows) - 1
		for i := 1; i < len(rows); i++ {
			if strings.EqualFold(cellAt(rows[i], colStatus), model.StatusSeated) {
				stats.Seated++
			}
		}
	}

	return stats, nil
}

// countRows returns the number of data rows in a table, zero when the
// table is missing or unreadable.
func (s *DashboardService) countRows(ctx context.Context, name string) int {
	rows, err := s.rows(ctx, name)
	if err != nil || len(rows) < 2 {
		return 0
	}
	return len(rows) - 1
}

func (s *DashboardService) rows(ctx context.Context, name string) ([][]string, error) {
	table, err := s.store.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	return table.Rows(ctx)
}

func (s *DashboardService) records(ctx context.Context, name string) ([]model.Record, error) {
	table, err := s.store.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	return table.Records(ctx)
}
