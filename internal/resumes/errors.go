package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or is not owned by the caller.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)
