package room

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest accepted room name, in characters.
const MaxNameLength = 100

// Validate returns one message per violated rule, or nil when name is valid.
func Validate(name string) []string {
	var msgs []string
	if strings.TrimSpace(name) == "" {
		msgs = append(msgs, "Name can't be blank")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		msgs = append(msgs, fmt.Sprintf("Name is too long (maximum is %d characters)", MaxNameLength))
	}
	return msgs
}

// validationError wraps Validate's output, returning nil for a valid name.
func validationError(name string) error {
	if msgs := Validate(name); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
