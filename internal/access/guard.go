// Package access decides who may read stored documents. Checks are pure
// predicates over ids already loaded by the caller.
package access

import (
	"errors"
	"fmt"

	"jobboard-backend/internal/shared/metrics"
)

// ErrForbidden is returned by the Require helpers when access is refused.
var ErrForbidden = errors.New("access denied")

// ApplicationParties identifies the users involved in a job application.
type ApplicationParties struct {
	ApplicationID int64
	ApplicantID   int64
	JobPosterID   int64
}

// Guard grants document reads to owners and to the poster of the job an
// application was made to.
type Guard struct{}

// NewGuard constructs a Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// CanAccessApplicationDocument reports whether principalID is the applicant
// or the job poster.
func (g *Guard) CanAccessApplicationDocument(principalID int64, app ApplicationParties) bool {
	if principalID <= 0 {
		return false
	}
	return principalID == app.ApplicantID || principalID == app.JobPosterID
}

// CanAccessResume reports whether principalID owns the resume.
func (g *Guard) CanAccessResume(principalID, ownerID int64) bool {
	return principalID > 0 && principalID == ownerID
}

// RequireApplicationDocument returns ErrForbidden when the principal may not
// read the application's documents.
func (g *Guard) RequireApplicationDocument(principalID int64, app ApplicationParties) error {
	if g.CanAccessApplicationDocument(principalID, app) {
		return nil
	}
	metrics.IncAccessDenied()
	return fmt.Errorf("application %d: %w", app.ApplicationID, ErrForbidden)
}
