package store

import (
	"context"
	"fmt"

	"wealthwise/internal/domain"
)

// CreateInvite inserts invite
func (s *Store) CreateInvite(ctx context.Context, invite *domain.InviteLink) error {
	if err := s.conn(ctx).Create(invite).Error; err != nil {
		return fmt.Errorf("create invite: %w", err)
	}
	return nil
}

// GetInviteByToken loads an invite and its group, active or not
func (s *Store) GetInviteByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	var inv domain.InviteLink
	if err := s.conn(ctx).Preload("Group").Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, notFound(err, "invite")
	}
	return &inv, nil
}

// DeactivateInvite flips is_active from true to false. The conditional
// update is the serialisation point for redemption: it reports false when
// another transaction already consumed the invite.
func (s *Store) DeactivateInvite(ctx context.Context, id uint) (bool, error) {
	res := s.conn(ctx).Model(&domain.InviteLink{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("deactivate invite: %w", res.Error)
	}
	return res.RowsAffected == 1, nil // false when already used
}

// ListActiveInvites returns the unused invites of groupID, newest first
func (s *Store) ListActiveInvites(ctx context.Context, groupID uint) ([]domain.InviteLink, error) {
	var invites []domain.InviteLink
	err := s.conn(ctx).Preload("CreatedBy").
		Where("group_id = ? AND is_active = ?", groupID, true).
		Order("created_at desc, id desc").
		Find(&invites).Error
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	return invites, nil
}
