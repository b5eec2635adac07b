package store

import "errors"

var (
	// ErrNotFound is returned when a record with the given id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when creating a user with an email that is
	// already taken. The comparison is case-sensitive.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrProtectedRole is returned when attempting to delete the built-in
	// super admin role.
	ErrProtectedRole = errors.New("role is protected and can not be deleted")

	// ErrUnknownPermission is returned when a role references a permission key
	// that is not part of the catalog.
	ErrUnknownPermission = errors.New("unknown permission key")
)
