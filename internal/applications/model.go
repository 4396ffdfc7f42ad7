package applications

import (
	"fmt"
	"strings"

	"jobboard-backend/internal/access"
)

// Application is a job application with optional attached documents.
// Document paths are written at most once.
type Application struct {
	ID              int64
	ApplicantID     int64
	JobID           int64
	JobPostedByID   int64
	CoverLetterPath *string
	ResumePath      *string
}

// Parties returns the users allowed to read the application's documents.
func (a Application) Parties() access.ApplicationParties {
	return access.ApplicationParties{
		ApplicationID: a.ID,
		ApplicantID:   a.ApplicantID,
		JobPosterID:   a.JobPostedByID,
	}
}

// Path returns the storage key recorded for docType, or "".
func (a Application) Path(docType DocumentType) string {
	var p *string
	switch docType {
	case CoverLetter:
		p = a.CoverLetterPath
	case ResumeDocument:
		p = a.ResumePath
	}
	if p == nil {
		return ""
	}
	return *p
}

// DocumentType names a kind of document attached to an application.
type DocumentType string

const (
	CoverLetter    DocumentType = "cover-letter"
	ResumeDocument DocumentType = "resume"
)

// ParseDocumentType validates a document type from a request path.
func ParseDocumentType(raw string) (DocumentType, error) {
	switch DocumentType(strings.ToLower(strings.TrimSpace(raw))) {
	case CoverLetter:
		return CoverLetter, nil
	case ResumeDocument:
		return ResumeDocument, nil
	default:
		return "", fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, raw)
	}
}

// Folder is the storage folder for documents of this type.
func (t DocumentType) Folder() string {
	if t == CoverLetter {
		return "cover-letters"
	}
	return "resumes"
}

// DownloadName is the file name presented to clients.
func (t DocumentType) DownloadName() string {
	return string(t) + ".pdf"
}
