// Package service implements registration, invite handling and the
// net-worth ledger on top of the store. Every operation receives the acting
// user explicitly.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"wealthwise/internal/domain"
	"wealthwise/internal/store"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for any failed login
	ErrInvalidCredentials = errors.New("invalid username or password")

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
)

// Password length bounds
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
)

// Registration is the data a new user signs up with
type Registration struct {
	Username    string
	Password    string
	InviteToken string // optional; joins the invite's group when set
}

// Accounts registers and authenticates users
type Accounts struct {
	store    *store.Store
	invites  *Invites
	HashCost int
}

// NewAccounts creates the account service
func NewAccounts(st *store.Store, invites *Invites) *Accounts {
	return &Accounts{store: st, invites: invites, HashCost: bcrypt.DefaultCost}
}

// Register signs up a user. With an invite token the user joins the
// invite's group as a member; without one a new group is created and the
// user becomes its admin.
func (a *Accounts) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	if token := strings.TrimSpace(reg.InviteToken); token != "" {
		user, err := a.prepare(ctx, reg, domain.RoleMember)
		if err != nil {
			return nil, err
		}
		return a.invites.Redeem(ctx, token, user)
	}
	user, err := a.prepare(ctx, reg, domain.RoleGroupAdmin)
	if err != nil {
		return nil, err
	}
	group := &domain.Group{Name: domain.DefaultGroupName(user.Username)}
	err = a.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		user.GroupID = &group.ID
		return createUser(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	user.Group = group
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"group_id": group.ID,
	}).Info("User registered with new group")
	return user, nil
}

// Authenticate checks a username and password
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := a.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// prepare validates reg and returns an unsaved user with a hashed password
func (a *Accounts) prepare(ctx context.Context, reg Registration, role domain.Role) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(reg.Username))
	verr := ValidateCredentials(username, reg.Password)
	if !verr.Has("username") {
		taken, err := a.store.UsernameTaken(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("username", "A user with that username already exists.")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), a.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{Username: username, Password: string(hash), Role: role}, nil // Not saved yet
}

// ValidateCredentials checks username and password formats
func ValidateCredentials(username, password string) *domain.ValidationError {
	verr := &domain.ValidationError{}
	switch {
	case username == "":
		verr.Add("username", "This field may not be blank.")
	case !usernamePattern.MatchString(username):
		verr.Add("username", "Enter a valid username of at most 150 letters, digits and @/./+/-/_ characters.")
	}
	switch {
	case password == "":
		verr.Add("password", "This field may not be blank.")
	case len(password) < MinPasswordLength:
		verr.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength))
	case len(password) > MaxPasswordLength:
		verr.Add("password", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxPasswordLength))
	}
	return verr
}

// createUser inserts user, reporting a lost uniqueness race as a field error
func createUser(ctx context.Context, tx *store.Store, user *domain.User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("create user %q: unknown role %q", user.Username, user.Role)
	}
	err := tx.CreateUser(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewValidationError("username", "A user with that username already exists.")
	}
	return err
}
