package upload

import (
	"errors"
	"strings"
)

// DefaultMaxBytes is the 5 MiB upload ceiling.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

var (
	ErrInvalidType = errors.New("invalid type")
	ErrTooLarge    = errors.New("too large")
)

// File describes a candidate upload. Only the declared type and size are inspected.
type File struct {
	Name        string
	ContentType string
	Size        int64
}

// Validator applies the type and size checks.
type Validator struct {
	MaxBytes int64
}

// NewValidator returns a Validator; maxBytes <= 0 means DefaultMaxBytes.
func NewValidator(maxBytes int64) Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Validator{MaxBytes: maxBytes}
}

// Validate returns nil when f is accepted, ErrInvalidType or ErrTooLarge otherwise.
// The type check runs first.
func (v Validator) Validate(f File) error {
	if !IsImage(f.ContentType) {
		return ErrInvalidType
	}
	limit := v.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if f.Size > limit {
		return ErrTooLarge
	}
	return nil
}

// IsImage reports whether contentType declares an image/* MIME type.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// Message is the human-readable text shown for a rejection.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidType):
		return "Please select a valid image file (JPEG, PNG, WebP)"
	case errors.Is(err, ErrTooLarge):
		return "Image size must be less than 5MB"
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
