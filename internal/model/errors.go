package model

import "fmt"

// ValidationError reports a value that was rejected while constructing a phone number or a
// birthday.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// KeyNotFoundError reports that no record is stored under the given name.
type KeyNotFoundError struct {
	Name string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", e.Name)
}
