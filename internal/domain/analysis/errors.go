package analysis

import "errors"

var (
	// ErrAnalysisInProgress rejects a submission while a task is running.
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	// ErrPipelineFault wraps anything that went wrong after the upload was accepted.
	ErrPipelineFault = errors.New("analysis failed")
	// ErrCanceled is returned by a task that was reset before it resolved.
	ErrCanceled = errors.New("analysis canceled")
	// ErrSessionNotFound means the session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
)
