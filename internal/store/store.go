// Package store holds the repository functions over the relational database.
// Net-worth queries accept a scope.Scope and never run unfiltered.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"wealthwise/internal/domain"

	"gorm.io/gorm"
)

// Store wraps a GORM handle, which may be a transaction
type Store struct {
	db *gorm.DB
}

// New creates a Store over db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a database transaction. fn receives a Store
// bound to the transaction; returning an error rolls it back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound converts gorm's missing-row error into domain.ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

// Page selects one page of an ordered listing
type Page struct {
	Number int // 1-based
	Size   int // Rows per page
}

// Pagination defaults and limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPageNumber   = math.MaxInt32 / MaxPageSize // Keeps offsets from overflowing
)

// NewPage clamps number and size into the accepted range
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether rows exist after this page
func (p Page) HasNext(total int64) bool {
	return int64(p.Number*p.Size) < total
}

// HasPrevious reports whether this is not the first page
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Size)
}
