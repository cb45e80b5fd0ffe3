package domain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	t.Run("empty uses defaults", func(t *testing.T) {
		set, err := ParseCategories("  ")
		require.NoError(t, err)
		assert.Equal(t, DefaultCategories, set)
	})

	t.Run("codes are upper-cased and labels default to code", func(t *testing.T) {
		set, err := ParseCategories("savings:Savings, real_estate:Real Estate,OTHER")
		require.NoError(t, err)
		assert.Equal(t, []string{"SAVINGS", "REAL_ESTATE", "OTHER"}, set.Codes())
		assert.Equal(t, "Real Estate", set.Label("REAL_ESTATE"))
		assert.Equal(t, "OTHER", set.Label("OTHER"))
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		_, err := ParseCategories("A:a,a:b")
		assert.ErrorContains(t, err, "duplicate")
	})

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := ParseCategories("A:a,:b")
		assert.Error(t, err)
	})
}

func TestLoadCategoriesFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	set, err := LoadCategoriesFile(write("ok.yaml", "categories:\n  - code: savings\n    label: Savings\n  - code: CRYPTO\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SAVINGS", "CRYPTO"}, set.Codes())
	assert.Equal(t, "CRYPTO", set.Label("CRYPTO"))

	_, err = LoadCategoriesFile(write("dup.yaml", "categories:\n  - code: A\n  - code: a\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = LoadCategoriesFile(write("empty.yaml", "categories: []\n"))
	assert.Error(t, err)

	_, err = LoadCategoriesFile(write("bad.yaml", "categories: [\n"))
	assert.Error(t, err)

	_, err = LoadCategoriesFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCategorySetLookup(t *testing.T) {
	assert.True(t, DefaultCategories.Contains("SAVINGS"))
	assert.False(t, DefaultCategories.Contains("INVALID_CATEGORY"))
	assert.Equal(t, "Property", DefaultCategories.Label("PROPERTY"))
	assert.Equal(t, "UNKNOWN", DefaultCategories.Label("UNKNOWN"))
}

func TestValidationError(t *testing.T) {
	var v ValidationError
	assert.True(t, v.Empty())
	assert.NoError(t, v.OrNil())

	v.Add("value", "must be positive")
	v.Merge(NewValidationError("name", "required"))
	require.Error(t, v.OrNil())
	assert.True(t, v.Has("name"))
	assert.Equal(t, "validation failed: name: required, value: must be positive", v.Error())

	wrapped := fmt.Errorf("create item: %w", &v)
	got, ok := AsValidation(wrapped)
	require.True(t, ok)
	assert.Same(t, &v, got)

	_, ok = AsValidation(errors.New("other"))
	assert.False(t, ok)
}

func TestRoles(t *testing.T) {
	su := &User{Role: RoleSuperuser}
	admin := &User{Role: RoleGroupAdmin}
	member := &User{Role: RoleMember}

	assert.True(t, su.IsSuperuser())
	assert.True(t, su.IsAdmin())
	assert.False(t, admin.IsSuperuser())
	assert.True(t, admin.IsAdmin())
	assert.False(t, member.IsAdmin())
	assert.False(t, Role("owner").Valid())
	assert.Equal(t, "Group Admin", RoleGroupAdmin.Label())
}

func TestNetWorthItemCategory(t *testing.T) {
	cat := "SAVINGS"
	asset := &NetWorthItem{ItemType: ItemAsset, AssetCategory: &cat}
	liability := &NetWorthItem{ItemType: ItemLiability}

	assert.True(t, asset.IsAsset())
	assert.Equal(t, "SAVINGS", asset.Category())
	assert.False(t, liability.IsAsset())
	assert.Equal(t, "", liability.Category())
	assert.False(t, ItemType("EQUITY").Valid())
}
