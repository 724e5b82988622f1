package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Common repository errors, shared by every storage driver
var (
	// ErrNotFound is returned when no document has the requested id or key
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a write violates a unique index
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvalidID is returned when an id is not a well-formed object id
	ErrInvalidID = errors.New("invalid id")
)

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
