package db

import (
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Username normalisation

	"wealthwise/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := db.AutoMigrate(&domain.Group{}, &domain.User{}, &domain.InviteLink{}, &domain.NetWorthItem{})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// EnsureSuperuser creates a superuser unless one with that username exists.
// It reports whether a user was created.
func EnsureSuperuser(db *gorm.DB, username, password string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return false, errors.New("superuser username and password are required")
	}
	var existing domain.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil // Already present
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup superuser: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Username: username, Password: string(hash), Role: domain.RoleSuperuser}
	if !user.Role.Valid() {
		return false, fmt.Errorf("create superuser: unknown role %q", user.Role)
	}
	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("create superuser: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": username}).Info("Superuser created")
	return true, nil
}
