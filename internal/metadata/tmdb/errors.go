package tmdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for TMDB API operations.
var (
	ErrNotFound     = errors.New("tmdb: not found")
	ErrUnauthorized = errors.New("tmdb: invalid or missing credentials")
	ErrRateLimited  = errors.New("tmdb: rate limited by server")
	ErrBadRequest   = errors.New("tmdb: bad request")
	ErrServer       = errors.New("tmdb: server error")
	ErrInvalidID    = errors.New("tmdb: invalid identifier")
	ErrCircuitOpen  = errors.New("tmdb: circuit open, provider temporarily skipped")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "search", "recommendations", "discover", "genres"
	ID  int    // Movie or genre ID, if applicable
	Err error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("tmdb %s [%d]: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("tmdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, id int, err error) error {
	return &Error{Op: op, ID: id, Err: err}
}
