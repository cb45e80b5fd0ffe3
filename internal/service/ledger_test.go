package service

import (
	"context"
	"testing"

	"wealthwise/internal/domain"
	"wealthwise/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssetAndSummary(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()

	item, err := e.ledger.Create(ctx, alice, assetInput("Emergency Fund", "10000.00", "SAVINGS"))
	require.NoError(t, err)
	assert.Equal(t, *alice.GroupID, item.GroupID)
	assert.Equal(t, "SAVINGS", item.Category())

	s, err := e.ledger.Summary(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", s.TotalAssets.StringFixed(2))
	assert.Equal(t, "0.00", s.TotalLiabilities.StringFixed(2))
	require.Len(t, s.AssetsByCategory, 1)
	assert.Equal(t, "SAVINGS", s.AssetsByCategory[0].Category)
	assert.Equal(t, "Savings", s.AssetsByCategory[0].Label)
	assert.Equal(t, "10000.00", s.AssetsByCategory[0].Subtotal.StringFixed(2))
	assert.EqualValues(t, 1, s.AssetsByCategory[0].Count)
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name  string
		in    ItemInput
		field string
	}{
		{"unlisted category", assetInput("X", "1.00", "INVALID_CATEGORY"), "asset_category"},
		{"missing category", ItemInput{ItemType: domain.ItemAsset, Name: strPtr("X"), Value: decPtr("1")}, "asset_category"},
		{"negative value", assetInput("X", "-0.01", "SAVINGS"), "value"},
		{"three decimal places", assetInput("X", "1.001", "SAVINGS"), "value"},
		{"too many digits", assetInput("X", "10000000000000", "SAVINGS"), "value"},
		{"blank name", assetInput("   ", "1", "SAVINGS"), "name"},
		{"missing name", ItemInput{ItemType: domain.ItemLiability, Value: decPtr("1")}, "name"},
		{"missing value", ItemInput{ItemType: domain.ItemLiability, Name: strPtr("Loan")}, "value"},
		{"liability with category", ItemInput{ItemType: domain.ItemLiability, Name: strPtr("Loan"), Value: decPtr("1"), AssetCategory: strPtr("SAVINGS")}, "asset_category"},
		{"unknown item type", ItemInput{ItemType: "EQUITY", Name: strPtr("X"), Value: decPtr("1")}, "item_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.Create(ctx, alice, tt.in)
			requireFieldError(t, err, tt.field)
		})
	}

	_, total, err := e.store.ListItems(ctx, scopeOf(alice), "", store.NewPage(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateZeroValueAllowed(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	item, err := e.ledger.Create(context.Background(), alice, liabilityInput("Paid off", "0"))
	require.NoError(t, err)
	assert.True(t, item.Value.IsZero())
	assert.Nil(t, item.AssetCategory)
}

func TestCreateTargetGroup(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	root := e.superuser(t)
	ctx := context.Background()

	t.Run("user without group", func(t *testing.T) {
		loner := &domain.User{Username: "loner", Password: "x", Role: domain.RoleMember}
		require.NoError(t, e.store.CreateUser(ctx, loner))
		_, err := e.ledger.Create(ctx, loner, liabilityInput("Loan", "5"))
		requireFieldError(t, err, "group")
	})

	t.Run("member cannot pick another group", func(t *testing.T) {
		bob := e.register(t, "bob")
		in := liabilityInput("Loan", "5")
		in.GroupID = alice.GroupID
		item, err := e.ledger.Create(ctx, bob, in)
		require.NoError(t, err)
		assert.Equal(t, *bob.GroupID, item.GroupID)
	})

	t.Run("superuser without group must choose", func(t *testing.T) {
		_, err := e.ledger.Create(ctx, root, liabilityInput("Loan", "5"))
		requireFieldError(t, err, "group_id")
	})

	t.Run("superuser chooses a group", func(t *testing.T) {
		in := liabilityInput("Loan", "5")
		in.GroupID = alice.GroupID
		item, err := e.ledger.Create(ctx, root, in)
		require.NoError(t, err)
		assert.Equal(t, *alice.GroupID, item.GroupID)
	})

	t.Run("superuser chooses a missing group", func(t *testing.T) {
		in := liabilityInput("Loan", "5")
		missing := uint(424242)
		in.GroupID = &missing
		_, err := e.ledger.Create(ctx, root, in)
		requireFieldError(t, err, "group_id")
	})
}

func TestListIsScopedToGroup(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	root := e.superuser(t)
	ctx := context.Background()

	_, err := e.ledger.Create(ctx, alice, assetInput("A1", "1", "SAVINGS"))
	require.NoError(t, err)
	_, err = e.ledger.Create(ctx, alice, assetInput("A2", "2", "PROPERTY"))
	require.NoError(t, err)
	_, err = e.ledger.Create(ctx, bob, assetInput("B1", "3", "SAVINGS"))
	require.NoError(t, err)

	page, err := e.ledger.List(ctx, alice, domain.ItemAsset, store.NewPage(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, it := range page.Items {
		assert.Equal(t, *alice.GroupID, it.GroupID)
	}

	page, err = e.ledger.List(ctx, root, domain.ItemAsset, store.NewPage(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	s, err := e.ledger.Summary(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, "6.00", s.TotalAssets.StringFixed(2))
}

func TestInvitedMemberSharesGroupData(t *testing.T) {
	e := newEnv(t)
	owner := e.register(t, "owner")
	ctx := context.Background()
	issued, err := e.invites.Create(ctx, owner)
	require.NoError(t, err)
	member, err := e.accounts.Register(ctx, Registration{Username: "member", Password: "password123", InviteToken: issued.Invite.Token})
	require.NoError(t, err)

	item, err := e.ledger.Create(ctx, owner, assetInput("Shared", "50", "SAVINGS"))
	require.NoError(t, err)

	got, err := e.ledger.Get(ctx, member, domain.ItemAsset, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared", got.Name)

	require.NoError(t, e.ledger.Delete(ctx, member, domain.ItemAsset, item.ID))
}

func TestUpdateAndReplace(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()
	in := assetInput("Brokerage", "100.00", "INVESTMENTS")
	in.Description = strPtr("index funds")
	item, err := e.ledger.Create(ctx, alice, in)
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		got, err := e.ledger.Update(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemAsset, Value: decPtr("150.50")})
		require.NoError(t, err)
		assert.Equal(t, "150.50", got.Value.StringFixed(2))
		assert.Equal(t, "Brokerage", got.Name)
		assert.Equal(t, "index funds", got.Description)
	})

	t.Run("partial update with negative value fails and leaves row", func(t *testing.T) {
		_, err := e.ledger.Update(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemAsset, Value: decPtr("-1")})
		requireFieldError(t, err, "value")
		got, err := e.ledger.Get(ctx, alice, domain.ItemAsset, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Value.Equal(decimal.RequireFromString("150.50")))
	})

	t.Run("partial update with bad category", func(t *testing.T) {
		_, err := e.ledger.Update(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemAsset, AssetCategory: strPtr("CRYPTO")})
		requireFieldError(t, err, "asset_category")
	})

	t.Run("replace requires every field", func(t *testing.T) {
		_, err := e.ledger.Replace(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemAsset, Name: strPtr("Only name")})
		requireFieldError(t, err, "value")
		requireFieldError(t, err, "asset_category")
	})

	t.Run("replace clears omitted description", func(t *testing.T) {
		got, err := e.ledger.Replace(ctx, alice, item.ID, assetInput("House", "250000", "PROPERTY"))
		require.NoError(t, err)
		assert.Equal(t, "House", got.Name)
		assert.Equal(t, "PROPERTY", got.Category())
		assert.Empty(t, got.Description)
	})

	t.Run("wrong item type is not found", func(t *testing.T) {
		_, err := e.ledger.Update(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemLiability, Value: decPtr("1")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestOutOfScopeWritesAreNotFound(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	ctx := context.Background()
	item, err := e.ledger.Create(ctx, bob, assetInput("Bob's", "10", "SAVINGS"))
	require.NoError(t, err)

	_, err = e.ledger.Get(ctx, alice, domain.ItemAsset, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.ledger.Update(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemAsset, Name: strPtr("mine")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	// invalid data against an out-of-scope row still reads as not found
	_, err = e.ledger.Update(ctx, alice, item.ID, ItemInput{ItemType: domain.ItemAsset, Value: decPtr("-5")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.ledger.Delete(ctx, alice, domain.ItemAsset, item.ID), domain.ErrNotFound)

	still, err := e.ledger.Get(ctx, bob, domain.ItemAsset, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob's", still.Name)
}

func TestDeleteTwice(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()
	item, err := e.ledger.Create(ctx, alice, liabilityInput("Loan", "10"))
	require.NoError(t, err)

	require.NoError(t, e.ledger.Delete(ctx, alice, domain.ItemLiability, item.ID))
	assert.ErrorIs(t, e.ledger.Delete(ctx, alice, domain.ItemLiability, item.ID), domain.ErrNotFound)
}

func TestSummaryNetWorthIdentity(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()
	for _, in := range []ItemInput{
		assetInput("Savings", "10000.00", "SAVINGS"),
		assetInput("Brokerage", "25000.00", "INVESTMENTS"),
		assetInput("House", "300000.00", "PROPERTY"),
		assetInput("Cash", "0.10", "SAVINGS"),
		liabilityInput("Mortgage", "200000.00"),
		liabilityInput("Card", "5000.20"),
	} {
		_, err := e.ledger.Create(ctx, alice, in)
		require.NoError(t, err)
	}

	s, err := e.ledger.Summary(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "335000.10", s.TotalAssets.StringFixed(2))
	assert.Equal(t, "205000.20", s.TotalLiabilities.StringFixed(2))
	assert.True(t, s.NetWorth.Equal(s.TotalAssets.Sub(s.TotalLiabilities)))
	assert.Equal(t, "129999.90", s.NetWorth.StringFixed(2))

	var codes []string
	for _, c := range s.AssetsByCategory {
		codes = append(codes, c.Category)
	}
	assert.Equal(t, []string{"INVESTMENTS", "PROPERTY", "SAVINGS"}, codes)
	assert.Equal(t, "10000.10", s.AssetsByCategory[2].Subtotal.StringFixed(2))
	assert.EqualValues(t, 2, s.AssetsByCategory[2].Count)
}

func TestSummaryWithoutGroupIsEmpty(t *testing.T) {
	e := newEnv(t)
	loner := &domain.User{Username: "loner", Password: "x", Role: domain.RoleMember}
	require.NoError(t, e.store.CreateUser(context.Background(), loner))
	e.register(t, "alice")

	s, err := e.ledger.Summary(context.Background(), loner)
	require.NoError(t, err)
	assert.True(t, s.TotalAssets.IsZero())
	assert.True(t, s.NetWorth.IsZero())
	assert.Empty(t, s.AssetsByCategory)
}

func TestRatios(t *testing.T) {
	e := newEnv(t)
	alice := e.register(t, "alice")
	ctx := context.Background()

	r, err := e.ledger.Ratios(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "No Assets", r.HealthStatus)
	assert.True(t, r.DebtToAssetRatio.IsZero())

	_, err = e.ledger.Create(ctx, alice, assetInput("House", "1000", "PROPERTY"))
	require.NoError(t, err)
	_, err = e.ledger.Create(ctx, alice, liabilityInput("Loan", "400"))
	require.NoError(t, err)

	r, err = e.ledger.Ratios(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "40.00", r.DebtToAssetRatio.StringFixed(2))
	assert.Equal(t, "Good", r.HealthStatus)
	assert.Equal(t, "600.00", r.NetWorth.StringFixed(2))

	_, err = e.ledger.Create(ctx, alice, liabilityInput("More", "400"))
	require.NoError(t, err)
	r, err = e.ledger.Ratios(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Needs Attention", r.HealthStatus)
}

func TestCustomCategories(t *testing.T) {
	e := newEnv(t)
	set, err := domain.ParseCategories("REAL_ESTATE:Real Estate,PERSONAL:Personal")
	require.NoError(t, err)
	ledger := NewLedger(e.store, set)
	alice := e.register(t, "alice")

	_, err = ledger.Create(context.Background(), alice, assetInput("Flat", "1", "REAL_ESTATE"))
	require.NoError(t, err)
	_, err = ledger.Create(context.Background(), alice, assetInput("Fund", "1", "SAVINGS"))
	requireFieldError(t, err, "asset_category")
}
