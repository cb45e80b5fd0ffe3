package domain

import "time"

// InviteLink Model; a single-use token granting membership of Group
type InviteLink struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Token       string    `gorm:"size:64;uniqueIndex;not null" json:"token"`    // Secret token
	GroupID     uint      `gorm:"index;not null" json:"group_id"`               // Owning group
	Group       *Group    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`        // Owning group
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`                // Issuing user
	CreatedBy   *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`        // Issuing user
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"` // Flips to false once, on redemption
	CreatedAt   time.Time `json:"created_at"`                                   // Creation time
	UpdatedAt   time.Time `json:"updated_at"`                                   // Last change
}
