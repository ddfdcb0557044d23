package ai

import "errors"

var (
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	// ErrEmptyResponse means the provider answered without any choice.
	ErrEmptyResponse = errors.New("ai returned no choices")
	// ErrUnknownPlant means the model named a plant that is not in the catalog.
	ErrUnknownPlant = errors.New("ai named an unknown plant")
)
