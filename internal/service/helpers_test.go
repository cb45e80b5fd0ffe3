package service

import (
	"context"
	"sync/atomic"
	"testing"

	"wealthwise/internal/db/testdb"
	"wealthwise/internal/domain"
	"wealthwise/internal/scope"
	"wealthwise/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type env struct {
	gdb      *gorm.DB
	store    *store.Store
	accounts *Accounts
	invites  *Invites
	ledger   *Ledger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := testdb.New(t)
	st := store.New(gdb)
	invites := NewInvites(st, "http://test.local")
	accounts := NewAccounts(st, invites)
	accounts.HashCost = bcrypt.MinCost
	return &env{gdb: gdb, store: st, accounts: accounts, invites: invites, ledger: NewLedger(st, nil)}
}

// register creates a solo user, who becomes admin of a fresh group
func (e *env) register(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := e.accounts.Register(context.Background(), Registration{Username: username, Password: "password123"})
	require.NoError(t, err)
	return u
}

func (e *env) superuser(t *testing.T) *domain.User {
	t.Helper()
	u := &domain.User{Username: "root", Password: "x", Role: domain.RoleSuperuser}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assetInput(name, value, category string) ItemInput {
	return ItemInput{ItemType: domain.ItemAsset, Name: strPtr(name), Value: decPtr(value), AssetCategory: strPtr(category)}
}

func liabilityInput(name, value string) ItemInput {
	return ItemInput{ItemType: domain.ItemLiability, Name: strPtr(name), Value: decPtr(value)}
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	verr, ok := domain.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	require.True(t, verr.Has(field), "expected error on %q, got %v", field, verr.Fields)
}

func scopeOf(u *domain.User) scope.Scope {
	return scope.Resolve(u)
}

// deactivateAfterLookup marks token used right after the next read of
// invite_links, as a competing redemption committing in between would
func deactivateAfterLookup(t *testing.T, gdb *gorm.DB, token string) {
	t.Helper()
	var fired atomic.Bool
	err := gdb.Callback().Query().After("gorm:query").Register("test:deactivate_invite", func(tx *gorm.DB) {
		if tx.Statement.Table != "invite_links" || !fired.CompareAndSwap(false, true) {
			return
		}
		if err := gdb.Exec("UPDATE invite_links SET is_active = ? WHERE token = ?", false, token).Error; err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)
}
