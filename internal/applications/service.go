package applications

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/documents"
	"jobboard-backend/internal/shared/telemetry"
)

// FileStore is the storage facade application documents go through.
type FileStore interface {
	Store(ctx context.Context, folder, fileName, contentType string, body []byte) (string, error)
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Service stores and serves documents attached to job applications.
type Service struct {
	Repo      Repo
	Files     FileStore
	Validator *documents.Validator
	Guard     *access.Guard
}

// NewService constructs a Service.
func NewService(repo Repo, files FileStore, validator *documents.Validator, guard *access.Guard) *Service {
	if validator == nil {
		validator = documents.NewValidator(0)
	}
	if guard == nil {
		guard = access.NewGuard()
	}
	return &Service{Repo: repo, Files: files, Validator: validator, Guard: guard}
}

// StoreAttachment validates and stores one document, returning its key.
func (s *Service) StoreAttachment(ctx context.Context, docType DocumentType, up documents.Upload) (string, error) {
	if err := s.Validator.Validate(int64(len(up.Body)), up.ContentType, up.FileName); err != nil {
		return "", err
	}
	return s.Files.Store(ctx, docType.Folder(), up.FileName, documents.ContentTypePDF, up.Body)
}

// LoadAttachment returns a document of an application after checking that
// principalID is the applicant or the job poster.
func (s *Service) LoadAttachment(ctx context.Context, applicationID int64, docType DocumentType, principalID int64) ([]byte, error) {
	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.Guard.RequireApplicationDocument(principalID, app.Parties()); err != nil {
		telemetry.Warn("application.document_denied", map[string]any{
			"application_id": applicationID,
			"principal_id":   principalID,
			"document_type":  string(docType),
		})
		return nil, err
	}

	key := app.Path(docType)
	if key == "" {
		return nil, fmt.Errorf("application %d %s: %w", applicationID, docType, ErrDocumentNotFound)
	}
	return s.Files.Load(ctx, key)
}

// Attach stores the given documents for an application and records their
// keys. Only the applicant may attach, and each slot is filled once.
func (s *Service) Attach(ctx context.Context, applicationID, principalID int64, coverLetter, resume *documents.Upload) (Application, error) {
	if coverLetter == nil && resume == nil {
		return Application{}, fmt.Errorf("%w: no documents provided", ErrInvalidInput)
	}

	app, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if principalID <= 0 || principalID != app.ApplicantID {
		return Application{}, fmt.Errorf("attach to application %d: %w", applicationID, access.ErrForbidden)
	}
	if (coverLetter != nil && app.CoverLetterPath != nil) || (resume != nil && app.ResumePath != nil) {
		return Application{}, ErrAlreadyAttached
	}

	for _, up := range []*documents.Upload{coverLetter, resume} {
		if up == nil {
			continue
		}
		if err := s.Validator.Validate(int64(len(up.Body)), up.ContentType, up.FileName); err != nil {
			return Application{}, err
		}
	}

	var coverKey, resumeKey *string
	g, gctx := errgroup.WithContext(ctx)
	if coverLetter != nil {
		g.Go(func() error {
			key, err := s.StoreAttachment(gctx, CoverLetter, *coverLetter)
			if err != nil {
				return err
			}
			coverKey = &key
			return nil
		})
	}
	if resume != nil {
		g.Go(func() error {
			key, err := s.StoreAttachment(gctx, ResumeDocument, *resume)
			if err != nil {
				return err
			}
			resumeKey = &key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.discard(coverKey, resumeKey)
		return Application{}, err
	}

	if err := s.Repo.SetDocumentPaths(ctx, applicationID, coverKey, resumeKey); err != nil {
		s.discard(coverKey, resumeKey)
		return Application{}, err
	}

	telemetry.Info("application.documents_attached", map[string]any{
		"application_id": applicationID,
		"cover_letter":   coverKey != nil,
		"resume":         resumeKey != nil,
	})
	return s.Repo.GetByID(ctx, applicationID)
}

// discard removes stored files whose keys could not be recorded. This
// includes puts that completed before the request context was cancelled.
func (s *Service) discard(keys ...*string) {
	for _, key := range keys {
		if key == nil {
			continue
		}
		if err := s.Files.Delete(context.Background(), *key); err != nil {
			telemetry.Warn("application.orphan_cleanup_failed", map[string]any{"key": *key, "error": err})
		}
	}
}
