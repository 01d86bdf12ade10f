package repositories

import "errors"

var (
	// ErrNotFound means no record exists for the given id or lookup key.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner means the caller is authenticated but does not own the record.
	ErrNotOwner = errors.New("caller is not the owner")
	// ErrDuplicate means a unique field (email or username) is already taken.
	ErrDuplicate = errors.New("duplicate record")
)
