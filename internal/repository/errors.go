package repository

import "errors"

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserFilter selects users by exact field match. Empty fields are ignored.
type UserFilter struct {
	Role       string
	FirstName  string
	LastName   string
	Department string
}
