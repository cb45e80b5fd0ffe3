package domain

import "time"

// Role is a user's position in the access hierarchy
type Role string

// Roles in precedence order: superuser > group_admin > member
const (
	RoleSuperuser  Role = "superuser"   // System-wide access
	RoleGroupAdmin Role = "group_admin" // First member of a group
	RoleMember     Role = "member"      // Joined through an invite
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSuperuser, RoleGroupAdmin, RoleMember:
		return true
	}
	return false
}

// Label returns the role's display name
func (r Role) Label() string {
	switch r {
	case RoleSuperuser:
		return "Superuser"
	case RoleGroupAdmin:
		return "Group Admin"
	default:
		return "Member"
	}
}

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                 // Primary key
	Username  string    `gorm:"size:150;unique;not null" json:"username"`             // Unique username
	Password  string    `gorm:"not null" json:"-"`                                    // Hashed password
	Role      Role      `gorm:"size:20;not null;default:member" json:"role"`          // Access level
	GroupID   *uint     `gorm:"index" json:"group_id"`                                // Nullable; a user may have no group
	Group     *Group    `gorm:"constraint:OnDelete:SET NULL;" json:"group,omitempty"` // Owning group
	CreatedAt time.Time `json:"created_at"`                                           // Registration time
	UpdatedAt time.Time `json:"updated_at"`                                           // Last change
}

// IsSuperuser reports system-wide access
func (u *User) IsSuperuser() bool {
	return u.Role == RoleSuperuser
}

// IsAdmin reports whether the user is shown as an admin of their group.
// It grants no extra data access.
func (u *User) IsAdmin() bool {
	return u.Role == RoleGroupAdmin || u.Role == RoleSuperuser
}

// HasGroup reports group membership
func (u *User) HasGroup() bool {
	return u.GroupID != nil
}
