package resumes

import "time"

// Resume is a PDF a user keeps on file. At most one resume per user is the
// default, and exactly one is whenever the user has any.
type Resume struct {
	ID         int64
	UserID     int64
	FileName   string
	FilePath   string
	FileSize   int64
	IsDefault  bool
	UploadedAt time.Time
}
