package applications

import "errors"

var (
	// ErrNotFound indicates the application does not exist.
	ErrNotFound = errors.New("application not found")

	// ErrDocumentNotFound indicates no document of the requested type is attached.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyAttached indicates a document slot was already filled.
	ErrAlreadyAttached = errors.New("document already attached")
)
