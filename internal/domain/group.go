package domain

import "time"

// Group Model; the tenant boundary for net-worth data
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`          // Primary key
	Name      string    `gorm:"size:255;not null" json:"name"` // Display name
	CreatedAt time.Time `json:"created_at"`                    // Creation time
	UpdatedAt time.Time `json:"updated_at"`                    // Last change
}

// DefaultGroupName names the group created for a solo registration
func DefaultGroupName(username string) string {
	return username + "'s Group"
}
