package room

import (
	"errors"
	"strings"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("room not found")

// NotFoundError is returned when no room has the requested ID.
// ID is kept as the caller supplied it so the message echoes their input.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "Could not find room with ID: " + e.ID
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries every rule a room failed, in rule order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid room: " + strings.Join(e.Messages, ", ")
}
