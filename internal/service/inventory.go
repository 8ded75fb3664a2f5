package service

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"dodies-rest-api/internal/cache"
	"dodies-rest-api/internal/model"
	"dodies-rest-api/internal/repository"
)

// InventoryTableName is the live seafood board, owned entirely by an
// external process. This service only ever reads it.
const InventoryTableName = "Live Update"

// inventoryCacheKey is the cache key for the projected board.
const inventoryCacheKey = "inventory:board"

// InventoryService serves the read-only inventory projection, optionally
// through a short-TTL cache since the board changes far less often than the
// storefront polls it.
type InventoryService struct {
	store repository.Store
	cache cache.Cache
	ttl   time.Duration
}

// NewInventoryService creates a new inventory service. cache may be nil to
// read the store directly on every request.
func NewInventoryService(store repository.Store, c cache.Cache, ttl time.Duration) *InventoryService {
	return &InventoryService{
		store: store,
		cache: c,
		ttl:   ttl,
	}
}

// Board returns the current inventory board. An absent or empty table
// yields an empty board, not an error.
func (s *InventoryService) Board(ctx context.Context) ([]model.InventoryItem, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.readBoard(ctx)
	}

	payload, err := s.cache.GetOrSet(ctx, inventoryCacheKey, s.ttl, func() ([]byte, error) {
		items, err := s.readBoard(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, err
	}

	var items []model.InventoryItem
	if err := json.Unmarshal(payload, &items); err != nil {
		// A corrupt cache entry should not take the board down.
		log.Printf("[InventoryService] discarding bad cache entry: %v", err)
		_ = s.cache.Delete(ctx, inventoryCacheKey)
		return s.readBoard(ctx)
	}
	return items, nil
}

// readBoard projects the inventory table, skipping rows with no item name.
func (s *InventoryService) readBoard(ctx context.Context) ([]model.InventoryItem, error) {
	table, err := s.store.Table(ctx, InventoryTableName)
	if err == repository.ErrTableNotFound {
		return []model.InventoryItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := table.Rows(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.InventoryItem, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		cells := rows[i]
		if cellAt(cells, 1) == "" {
			continue
		}
		items = append(items, model.InventoryItem{
			Item:        cellAt(cells, 1),
			Status:      cellAt(cells, 2),
			Price:       cellAt(cells, 3),
			LastUpdated: cellAt(cells, 4),
		})
	}
	return items, nil
}
