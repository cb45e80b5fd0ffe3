package store

import (
	"context"
	"fmt"
	"strings"

	"wealthwise/internal/domain"
)

// CreateUser inserts user; the username is stored lower-cased
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.Username = strings.ToLower(user.Username)
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser loads a user with its group
func (s *Store) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.conn(ctx).Preload("Group").First(&u, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// GetUserByUsername looks a user up case-insensitively
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.conn(ctx).Preload("Group").Where("username = ?", strings.ToLower(username)).First(&u).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// UsernameTaken reports whether username is already registered
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&domain.User{}).Where("username = ?", strings.ToLower(username)).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// ListGroupMembers returns the members of groupID ordered by join time
func (s *Store) ListGroupMembers(ctx context.Context, groupID uint) ([]domain.User, error) {
	var users []domain.User
	err := s.conn(ctx).Where("group_id = ?", groupID).Order("created_at asc, id asc").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return users, nil
}

// ListUsers pages through every user, newest first
func (s *Store) ListUsers(ctx context.Context, page Page) ([]domain.User, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	q := s.conn(ctx).Preload("Group").Order("created_at desc, id desc")
	if err := page.apply(q).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}
