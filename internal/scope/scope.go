// Package scope resolves which group's net-worth data an actor may touch.
//
// Resolution is first-match:
//
//	superuser      -> every group
//	group member   -> the actor's group
//	anyone else    -> nothing
//
// Group admins and plain members resolve to the same scope.
package scope

import (
	"wealthwise/internal/domain"

	"gorm.io/gorm"
)

// Kind enumerates the three scope shapes
type Kind int

const (
	None Kind = iota
	SingleGroup
	AllGroups
)

// Scope is the set of groups visible to one actor for one request
type Scope struct {
	Kind    Kind
	GroupID uint
}

// Resolve computes the scope of actor. A nil actor has no scope.
func Resolve(actor *domain.User) Scope {
	switch {
	case actor == nil:
		return Scope{Kind: None}
	case actor.IsSuperuser():
		return Scope{Kind: AllGroups}
	case actor.GroupID != nil:
		return Scope{Kind: SingleGroup, GroupID: *actor.GroupID}
	default:
		return Scope{Kind: None}
	}
}

// Filter restricts a query on a table with a group_id column.
// Use it with db.Scopes.
func (s Scope) Filter(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.Kind {
		case AllGroups:
			return db
		case SingleGroup:
			return db.Where(column+" = ?", s.GroupID)
		default:
			return db.Where("1 = 0") // Matches nothing
		}
	}
}
