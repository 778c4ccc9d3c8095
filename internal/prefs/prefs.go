// Package prefs stores the last used session parameters and the UI language.
//
// Values are kept as strings in a Repository (SQLite in production) and read
// through an in-memory cache that is invalidated on every write. A missing
// or unreadable stored value never fails a read; callers get the configured
// defaults instead.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Preference keys.
const (
	KeySessionParams = "session.params"
	KeyLanguage      = "ui.language"
)

// Entry is one stored preference.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Repository persists preference values by key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Entry, error)
}

// NotFoundError is returned by Repository.Get for an unknown key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preference %q not found", e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
