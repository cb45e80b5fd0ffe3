package store

import (
	"context"
	"fmt"
	"time"

	"wealthwise/internal/domain"
	"wealthwise/internal/scope"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *Store) items(ctx context.Context, sc scope.Scope, itemType domain.ItemType) *gorm.DB {
	q := s.conn(ctx).Model(&domain.NetWorthItem{}).Scopes(sc.Filter("group_id"))
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	return q
}

// ListItems pages through the in-scope items of itemType. Rows are ordered
// newest first with id as tie-breaker so pages never overlap.
func (s *Store) ListItems(ctx context.Context, sc scope.Scope, itemType domain.ItemType, page Page) ([]domain.NetWorthItem, int64, error) {
	var total int64
	if err := s.items(ctx, sc, itemType).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	var items []domain.NetWorthItem
	q := s.items(ctx, sc, itemType).Order("created_at desc, id desc")
	if err := page.apply(q).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// GetItem loads one in-scope item of itemType. Items outside the scope are
// reported exactly like missing ones.
func (s *Store) GetItem(ctx context.Context, sc scope.Scope, itemType domain.ItemType, id uint) (*domain.NetWorthItem, error) {
	var item domain.NetWorthItem
	if err := s.items(ctx, sc, itemType).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFound(err, "item")
	}
	return &item, nil
}

// CreateItem inserts item; the caller has already checked the scope
func (s *Store) CreateItem(ctx context.Context, item *domain.NetWorthItem) error {
	if err := s.conn(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// SaveItem writes every column of item, provided it is still in scope
func (s *Store) SaveItem(ctx context.Context, sc scope.Scope, item *domain.NetWorthItem) error {
	now := time.Now()
	res := s.items(ctx, sc, item.ItemType).Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":           item.Name,
			"value":          item.Value,
			"asset_category": item.AssetCategory,
			"description":    item.Description,
			"updated_at":     now,
		})
	if res.Error != nil {
		return fmt.Errorf("save item: %w", res.Error)
	}
	if res.RowsAffected == 0 { // Missing or out of scope
		return fmt.Errorf("item: %w", domain.ErrNotFound)
	}
	item.UpdatedAt = now
	return nil
}

// DeleteItem removes one in-scope item. Deleting a missing or out-of-scope
// id yields domain.ErrNotFound.
func (s *Store) DeleteItem(ctx context.Context, sc scope.Scope, itemType domain.ItemType, id uint) error {
	res := s.conn(ctx).Scopes(sc.Filter("group_id")).
		Where("id = ? AND item_type = ?", id, itemType).
		Delete(&domain.NetWorthItem{})
	if res.Error != nil {
		return fmt.Errorf("delete item: %w", res.Error)
	}
	if res.RowsAffected == 0 { // Missing or out of scope
		return fmt.Errorf("item: %w", domain.ErrNotFound)
	}
	return nil
}

// Subtotal is the aggregate of one (item type, category) bucket
type Subtotal struct {
	ItemType      domain.ItemType // ASSET or LIABILITY
	AssetCategory *string         // nil for liabilities
	Total         decimal.Decimal // Sum of values
	Count         int64           // Rows in the bucket
}

// Subtotals aggregates in-scope values per item type and category
func (s *Store) Subtotals(ctx context.Context, sc scope.Scope) ([]Subtotal, error) {
	var rows []Subtotal
	err := s.items(ctx, sc, "").
		Select("item_type, asset_category, SUM(value) AS total, COUNT(id) AS count").
		Group("item_type, asset_category").
		Order("item_type, asset_category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate items: %w", err)
	}
	return rows, nil
}
