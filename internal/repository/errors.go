package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoggedIn is returned when an operation requires a session
	// that is absent.
	ErrNotLoggedIn = errors.New("no user logged in")
	// ErrBookNotFound is returned when a book id has no document.
	ErrBookNotFound = errors.New("book not found")
	// ErrRemote marks an unexpected remote-store failure. Lower-level
	// errors are converted at the repository boundary.
	ErrRemote = errors.New("remote store failure")
)

func wrapRemote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemote, err)
}
