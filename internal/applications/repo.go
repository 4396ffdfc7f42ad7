package applications

import "context"

// Repo reads applications and records their document paths. Application
// rows are owned by the wider service; this package only fills the paths.
type Repo interface {
	GetByID(ctx context.Context, applicationID int64) (Application, error)
	// SetDocumentPaths fills the given paths. A nil path leaves the column
	// untouched. Filling an already set path returns ErrAlreadyAttached.
	SetDocumentPaths(ctx context.Context, applicationID int64, coverLetter, resume *string) error
}
