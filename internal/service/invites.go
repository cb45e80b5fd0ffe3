package service

import (
	"context"
	"errors"
	"fmt"

	"wealthwise/internal/domain"
	"wealthwise/internal/metrics"
	"wealthwise/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Invites issues and redeems single-use group invitations
type Invites struct {
	store   *store.Store
	baseURL string
}

// NewInvites creates the invite service. baseURL prefixes generated links.
func NewInvites(st *store.Store, baseURL string) *Invites {
	return &Invites{store: st, baseURL: baseURL}
}

// IssuedInvite is a freshly created invite and its shareable URL
type IssuedInvite struct {
	Invite *domain.InviteLink
	URL    string
}

// Create issues an invite into the actor's group
func (s *Invites) Create(ctx context.Context, actor *domain.User) (*IssuedInvite, error) {
	if actor == nil || !actor.HasGroup() {
		return nil, domain.NewValidationError("group", "You must be in a group to create invite links.")
	}
	invite := &domain.InviteLink{
		Token:       newToken(),
		GroupID:     *actor.GroupID,
		CreatedByID: actor.ID,
		IsActive:    true,
	}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"invite_id": invite.ID,
		"group_id":  invite.GroupID,
		"user_id":   actor.ID,
	}).Info("Invite created")
	return &IssuedInvite{Invite: invite, URL: s.URL(invite.Token)}, nil
}

// URL is the registration link carrying token
func (s *Invites) URL(token string) string {
	return s.baseURL + "/register/" + token + "/"
}

// Lookup returns an active invite. Unknown tokens yield domain.ErrNotFound,
// used ones a validation error.
func (s *Invites) Lookup(ctx context.Context, token string) (*domain.InviteLink, error) {
	invite, err := s.store.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !invite.IsActive {
		return nil, errInviteUsed()
	}
	return invite, nil
}

// ListActive returns the unused invites of the actor's group
func (s *Invites) ListActive(ctx context.Context, actor *domain.User) ([]domain.InviteLink, error) {
	if actor == nil || !actor.HasGroup() {
		return nil, nil
	}
	return s.store.ListActiveInvites(ctx, *actor.GroupID)
}

// Redeem adds user, prepared by Accounts, to the invite's group.
// Deactivating the invite and creating the user commit together; when two
// redemptions race, the loser gets domain.ErrConflict and creates nothing.
func (s *Invites) Redeem(ctx context.Context, token string, user *domain.User) (_ *domain.User, err error) {
	defer func() {
		metrics.InviteRedemptions.WithLabelValues(redemptionResult(err)).Inc()
	}()
	invite, err := s.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		ok, err := tx.DeactivateInvite(ctx, invite.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("redeem invite %d: %w", invite.ID, domain.ErrConflict)
		}
		user.GroupID = &invite.GroupID
		return createUser(ctx, tx, user)
	})
	if err != nil {
		user.GroupID = nil // Rolled back with the transaction
		return nil, err
	}
	user.Group = invite.Group
	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"group_id":  invite.GroupID,
		"invite_id": invite.ID,
	}).Info("Invite redeemed")
	return user, nil
}

func errInviteUsed() *domain.ValidationError {
	return domain.NewValidationError("invite_token", "This invite link has expired or has already been used.")
}

func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "redeemed"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "rejected"
	}
}

// newToken returns an unguessable invite token (random v4 UUID, 122 bits)
func newToken() string {
	return uuid.NewString()
}
