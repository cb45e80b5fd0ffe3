package api

import (
	"time" // Timestamps

	"wealthwise/internal/domain"  // Domain models
	"wealthwise/internal/service" // Summary types
	"wealthwise/internal/store"   // Group statistics
)

// GroupResponse is the public view of a group
type GroupResponse struct {
	ID   uint   `json:"id"`   // Group ID
	Name string `json:"name"` // Group name
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uint           `json:"id"`         // User ID
	Username  string         `json:"username"`   // Username
	Role      domain.Role    `json:"role"`       // superuser, group_admin or member
	RoleLabel string         `json:"role_label"` // Human-readable role
	Group     *GroupResponse `json:"group"`      // Null when the user has no group
	CreatedAt time.Time      `json:"created_at"` // Registration time
}

func newUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		RoleLabel: u.Role.Label(),
		CreatedAt: u.CreatedAt,
	}
	if u.Group != nil {
		resp.Group = &GroupResponse{ID: u.Group.ID, Name: u.Group.Name}
	} else if u.GroupID != nil {
		resp.Group = &GroupResponse{ID: *u.GroupID}
	}
	return resp
}

// ItemResponse is the wire form of a net-worth item. Values are decimal
// strings with two places.
type ItemResponse struct {
	ID                   uint            `json:"id"`
	GroupID              uint            `json:"group_id"`
	Name                 string          `json:"name"`
	Value                string          `json:"value"`
	ItemType             domain.ItemType `json:"item_type"`
	AssetCategory        *string         `json:"asset_category"`
	AssetCategoryDisplay *string         `json:"asset_category_display"`
	Description          string          `json:"description"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func newItemResponse(item *domain.NetWorthItem, categories domain.CategorySet) ItemResponse {
	resp := ItemResponse{
		ID:            item.ID,
		GroupID:       item.GroupID,
		Name:          item.Name,
		Value:         item.Value.StringFixed(domain.ValueDecimalPlaces),
		ItemType:      item.ItemType,
		AssetCategory: item.AssetCategory,
		Description:   item.Description,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.AssetCategory != nil {
		label := categories.Label(*item.AssetCategory)
		resp.AssetCategoryDisplay = &label
	}
	return resp
}

// CategorySubtotalResponse is one entry of assets_by_category
type CategorySubtotalResponse struct {
	AssetCategory        string `json:"asset_category"`
	AssetCategoryDisplay string `json:"asset_category_display"`
	Subtotal             string `json:"subtotal"`
	Count                int64  `json:"count"`
}

// SummaryResponse is the body of the summary endpoint
type SummaryResponse struct {
	TotalAssets      string                     `json:"total_assets"`
	TotalLiabilities string                     `json:"total_liabilities"`
	NetWorth         string                     `json:"net_worth"`
	AssetsByCategory []CategorySubtotalResponse `json:"assets_by_category"`
}

func newSummaryResponse(s *service.Summary) SummaryResponse {
	resp := SummaryResponse{
		TotalAssets:      s.TotalAssets.StringFixed(domain.ValueDecimalPlaces),
		TotalLiabilities: s.TotalLiabilities.StringFixed(domain.ValueDecimalPlaces),
		NetWorth:         s.NetWorth.StringFixed(domain.ValueDecimalPlaces),
		AssetsByCategory: make([]CategorySubtotalResponse, 0, len(s.AssetsByCategory)),
	}
	for _, c := range s.AssetsByCategory {
		resp.AssetsByCategory = append(resp.AssetsByCategory, CategorySubtotalResponse{
			AssetCategory:        c.Category,
			AssetCategoryDisplay: c.Label,
			Subtotal:             c.Subtotal.StringFixed(domain.ValueDecimalPlaces),
			Count:                c.Count,
		})
	}
	return resp
}

// InviteResponse is an invite as shown to members of its group
type InviteResponse struct {
	Token     string        `json:"token"`
	InviteURL string        `json:"invite_url"`
	GroupID   uint          `json:"group_id"`
	CreatedBy *UserResponse `json:"created_by,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// GroupStatsResponse is a group row of the admin listing
type GroupStatsResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	MemberCount int64     `json:"member_count"`
	ItemCount   int64     `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func newGroupStatsResponse(g store.GroupStats) GroupStatsResponse {
	return GroupStatsResponse{
		ID:          g.ID,
		Name:        g.Name,
		MemberCount: g.MemberCount,
		ItemCount:   g.ItemCount,
		CreatedAt:   g.CreatedAt,
	}
}
