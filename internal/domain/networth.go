package domain

import (
	"time"

	"github.com/shopspring/decimal" // Exact money arithmetic
)

// ItemType discriminates assets from liabilities
type ItemType string

// Item types
const (
	ItemAsset     ItemType = "ASSET"     // Counts towards total assets
	ItemLiability ItemType = "LIABILITY" // Counts towards total liabilities
)

// Valid reports whether t is a known item type
func (t ItemType) Valid() bool {
	return t == ItemAsset || t == ItemLiability
}

// Value limits, matching the decimal(15,2) column
const (
	ValueMaxDigits     = 15
	ValueDecimalPlaces = 2
)

// NetWorthItem Model; an Asset or a Liability owned by one group
type NetWorthItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                                                   // Primary key
	GroupID       uint            `gorm:"not null;index:idx_group_type;index:idx_group_category" json:"group_id"` // Owning group id
	Group         *Group          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                                  // Owning group
	Name          string          `gorm:"size:255;not null" json:"name"`                                          // Item name
	Value         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"value"`                               // Always >= 0
	ItemType      ItemType        `gorm:"size:20;not null;index:idx_group_type" json:"item_type"`                 // ASSET or LIABILITY
	AssetCategory *string         `gorm:"size:20;index:idx_group_category" json:"asset_category"`                 // Assets only
	Description   string          `gorm:"type:text" json:"description"`                                           // Optional notes
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`                                                // Listing order
	UpdatedAt     time.Time       `json:"updated_at"`                                                             // Last change
}

// IsAsset reports whether the item is an asset
func (i *NetWorthItem) IsAsset() bool {
	return i.ItemType == ItemAsset
}

// Category returns the asset category code, or "" for liabilities
func (i *NetWorthItem) Category() string {
	if i.AssetCategory == nil {
		return ""
	}
	return *i.AssetCategory
}
