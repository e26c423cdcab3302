// Package errors defines the error categories shared by every layer. Domain
// errors wrap exactly one category; handlers, the remote client and metrics
// only ever look at the category.
package errors

import (
	"errors"
	"fmt"
)

// Categories.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized covers missing or bad credentials and a share link opened
	// by someone other than its receiver.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrCryptoFailure is any failed decryption, unwrap or envelope decode. It
	// never says whether the key was wrong or the data damaged.
	ErrCryptoFailure = errors.New("crypto failure")

	// ErrCorruption is a broken stored invariant, such as a key record whose
	// content document is gone. It is reported, never repaired.
	ErrCorruption = errors.New("corruption")
)

// Codes identify a category in API error bodies and metric labels.
const (
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeInvalidInput  = "invalid_input"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeCryptoFailure = "crypto_failure"
	CodeCorruption    = "corruption"
	CodeInternal      = "internal_error"
)

// categories is ordered: the first match wins for an error wrapping several.
var categories = []struct {
	err  error
	code string
}{
	{ErrNotFound, CodeNotFound},
	{ErrConflict, CodeConflict},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrUnauthorized, CodeUnauthorized},
	{ErrCryptoFailure, CodeCryptoFailure},
	{ErrCorruption, CodeCorruption},
	{ErrForbidden, CodeForbidden},
}

// New creates an uncategorized error.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping it matchable with Is. A nil err
// stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Category returns the category err wraps, or nil.
func Category(err error) error {
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.err
		}
	}
	return nil
}

// Code returns the code of err's category. Uncategorized errors are
// CodeInternal; nil has no code.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// FromCode rebuilds a categorized error from a code and message received from
// the API. It returns nil for CodeInternal and unknown codes.
func FromCode(code, message string) error {
	for _, c := range categories {
		if c.code == code {
			return Wrap(c.err, message)
		}
	}
	return nil
}
