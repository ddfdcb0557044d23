package middleware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/herbalens/internal/domain/plants"
)

// Input validation and sanitization utilities

const maxQueryLen = 100

var (
	plantIDPattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)
	uploadKeyPattern = regexp.MustCompile(`^[a-f0-9-]{36}(\.[a-zA-Z0-9]{1,8})?$`)
)

// ValidatePlantID checks the slug format used for catalog ids.
func ValidatePlantID(id string) error {
	if !plantIDPattern.MatchString(id) {
		return fmt.Errorf("invalid plant id format")
	}
	return nil
}

// ValidateSessionID accepts canonical UUIDs only.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return fmt.Errorf("invalid session ID format")
	}
	return nil
}

// ValidateToxicity parses an optional toxicity filter. Empty means no filter.
func ValidateToxicity(raw string) (plants.Toxicity, bool, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", false, nil
	}
	t := plants.Toxicity(raw)
	if !t.Valid() {
		return "", false, fmt.Errorf("invalid toxicity: %s (allowed: safe, caution, toxic)", raw)
	}
	return t, true, nil
}

// ValidateUploadKey blocks anything that isn't "<uuid>[.ext]".
func ValidateUploadKey(key string) error {
	if !uploadKeyPattern.MatchString(key) {
		return fmt.Errorf("invalid upload key")
	}
	return nil
}

// SanitizeQuery removes control characters and caps the length of a search query.
func SanitizeQuery(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' {
			result.WriteRune(r)
		}
	}
	out := strings.TrimSpace(result.String())
	if runes := []rune(out); len(runes) > maxQueryLen {
		out = string(runes[:maxQueryLen])
	}
	return out
}
