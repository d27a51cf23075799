// Package store provides GORM-backed persistence for clients, workflow
// templates and tasks.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// ErrInvalid is wrapped by every rejected field value.
var ErrInvalid = errors.New("invalid input")

// Store is the persistence layer. It is safe for concurrent use to the
// extent the underlying *gorm.DB is.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// NewWithClock returns a Store that stamps completion times from now.
func NewWithClock(db *gorm.DB, now func() time.Time) *Store {
	return &Store{db: db, now: now}
}

// DB exposes the underlying connection.
func (s *Store) DB() *gorm.DB { return s.db }

// NewID returns a random identifier for a new row.
func NewID() string {
	return uuid.NewString()
}

// notFound maps gorm.ErrRecordNotFound onto ErrNotFound.
func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("store: %s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("store: get %s %s: %w", kind, id, err)
}

// invalidf formats a validation error wrapping ErrInvalid.
func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("store: %s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}

// utc returns a UTC copy of t, or nil.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
