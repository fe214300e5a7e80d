package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound     = errors.New("profile not found")
	ErrDuplicateID  = errors.New("identifier listed more than once")
	ErrEmptyID      = errors.New("profile ID cannot be empty")
	ErrIDExhausted  = errors.New("could not mint a unique identifier")
	ErrUnknownMeter = errors.New("unknown meter slot")
	ErrNoStorage    = errors.New("manager has no storage backend")
	ErrInvalidText  = errors.New("text holds characters that cannot be stored")
)

// ConversionError reports a single field whose text does not parse as its
// expected type, or cannot be stored as given. It never aborts an import.
type ConversionError struct {
	Profile Identifier
	Field   string
	Value   string
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Profile != "" {
		return fmt.Sprintf("profile %s: field %s: cannot convert %q: %v", e.Profile, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("field %s: cannot convert %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ParseError reports on-disk data that could not be read as a whole.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a failure to persist the collection.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
