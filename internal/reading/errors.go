package reading

import (
	"errors"
	"strconv"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("temperature reading not found")

	// ErrInvalidReading is returned when a reading fails validation before insert.
	ErrInvalidReading = errors.New("invalid temperature reading")
)

// NotFoundError is returned when no reading has the requested ID.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return "Could not find temperature reading with ID: " + strconv.FormatInt(e.ID, 10)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
