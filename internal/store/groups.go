package store

import (
	"context"
	"fmt"

	"wealthwise/internal/domain"
)

// CreateGroup inserts group
func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) error {
	if err := s.conn(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// GetGroup loads a group by id
func (s *Store) GetGroup(ctx context.Context, id uint) (*domain.Group, error) {
	var g domain.Group
	if err := s.conn(ctx).First(&g, id).Error; err != nil {
		return nil, notFound(err, "group")
	}
	return &g, nil
}

// GroupStats is a group with its member and item counts
type GroupStats struct {
	domain.Group
	MemberCount int64 // Users in the group
	ItemCount   int64 // Net-worth items owned by the group
}

// groupStatsColumns counts members and items per row in one round trip.
// groups is a reserved word on MySQL 8 so it stays quoted.
const groupStatsColumns = "`groups`.*, " +
	"(SELECT COUNT(*) FROM users WHERE users.group_id = `groups`.id) AS member_count, " +
	"(SELECT COUNT(*) FROM net_worth_items WHERE net_worth_items.group_id = `groups`.id) AS item_count"

// ListGroups pages through every group, newest first, with counts
func (s *Store) ListGroups(ctx context.Context, page Page) ([]GroupStats, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&domain.Group{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}
	var out []GroupStats
	q := s.conn(ctx).Model(&domain.Group{}).
		Select(groupStatsColumns).
		Order("`groups`.created_at desc, `groups`.id desc")
	if err := page.apply(q).Scan(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}
	return out, total, nil
}
