package service

import (
	"context"
	"testing"

	"wealthwise/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterWithoutInviteCreatesGroup(t *testing.T) {
	e := newEnv(t)
	u := e.register(t, "Alice")

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, domain.RoleGroupAdmin, u.Role)
	require.NotNil(t, u.GroupID)
	require.NotNil(t, u.Group)
	assert.Equal(t, "alice's Group", u.Group.Name)

	members, err := e.store.ListGroupMembers(context.Background(), *u.GroupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, u.ID, members[0].ID)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name  string
		reg   Registration
		field string
	}{
		{"blank username", Registration{Username: " ", Password: "password123"}, "username"},
		{"bad characters", Registration{Username: "al ice", Password: "password123"}, "username"},
		{"duplicate is case-insensitive", Registration{Username: "ALICE", Password: "password123"}, "username"},
		{"short password", Registration{Username: "bob", Password: "short"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.accounts.Register(ctx, tt.reg)
			requireFieldError(t, err, tt.field)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")
	ctx := context.Background()

	u, err := e.accounts.Authenticate(ctx, "Alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = e.accounts.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = e.accounts.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	e := newEnv(t)
	err := createUser(context.Background(), e.store, &domain.User{Username: "mallory", Password: "x", Role: "owner"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown role "owner"`)

	var count int64
	require.NoError(t, e.gdb.Model(&domain.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
