package analysis

import "context"

// Classifier turns an uploaded image into a Result.
type Classifier interface {
	Classify(ctx context.Context, img Image) (Result, error)
}

// ImageStore keeps accepted uploads and returns a displayable reference.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
