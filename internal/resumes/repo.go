package resumes

import "context"

// Repo persists resume metadata. Implementations apply SetDefault and
// Delete atomically so the single-default invariant holds between calls.
type Repo interface {
	// Create inserts r and returns it with ID and UploadedAt populated.
	// IsDefault is honored only when the user has no default yet.
	Create(ctx context.Context, r Resume) (Resume, error)
	GetByID(ctx context.Context, resumeID int64) (Resume, error)
	// ListByUser returns the user's resumes, newest first.
	ListByUser(ctx context.Context, userID int64) ([]Resume, error)
	GetDefault(ctx context.Context, userID int64) (Resume, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	// SetDefault clears the user's current default and marks resumeID.
	SetDefault(ctx context.Context, userID, resumeID int64) (Resume, error)
	// Delete removes resumeID. When it was the default, the most recently
	// uploaded remaining resume is promoted and returned.
	Delete(ctx context.Context, userID, resumeID int64) (*Resume, error)
}
