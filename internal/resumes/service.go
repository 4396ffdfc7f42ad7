package resumes

import (
	"context"
	"fmt"
	"sync"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/documents"
	"jobboard-backend/internal/shared/telemetry"
)

// FileStore is the storage facade the service writes resume files through.
type FileStore interface {
	Store(ctx context.Context, folder, fileName, contentType string, body []byte) (string, error)
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	URLFor(key string) string
}

// Service contains business logic for user resumes.
type Service struct {
	Repo      Repo
	Files     FileStore
	Validator *documents.Validator
	Guard     *access.Guard

	locks userLocks
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

// Folder returns the storage folder holding a user's resumes.
func Folder(userID int64) string {
	return fmt.Sprintf("resumes/user_%d", userID)
}

// Upload validates and stores a resume. The user's first resume becomes the
// default.
func (s *Service) Upload(ctx context.Context, userID int64, fileName, contentType string, body []byte) (Resume, error) {
	if userID <= 0 {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if err := s.Validator.Validate(int64(len(body)), contentType, fileName); err != nil {
		return Resume{}, err
	}

	key, err := s.Files.Store(ctx, Folder(userID), fileName, documents.ContentTypePDF, body)
	if err != nil {
		return Resume{}, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		s.discard(key)
		return Resume{}, err
	}

	created, err := s.Repo.Create(ctx, Resume{
		UserID:    userID,
		FileName:  fileName,
		FilePath:  key,
		FileSize:  int64(len(body)),
		IsDefault: count == 0,
	})
	if err != nil {
		s.discard(key)
		return Resume{}, err
	}

	telemetry.Info("resume.uploaded", map[string]any{
		"user_id":    userID,
		"resume_id":  created.ID,
		"size":       created.FileSize,
		"is_default": created.IsDefault,
	})
	return created, nil
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// GetDefault returns the user's default resume.
func (s *Service) GetDefault(ctx context.Context, userID int64) (Resume, error) {
	return s.Repo.GetDefault(ctx, userID)
}

// SetDefault makes resumeID the user's only default.
func (s *Service) SetDefault(ctx context.Context, resumeID, userID int64) (Resume, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.owned(ctx, resumeID, userID); err != nil {
		return Resume{}, err
	}
	return s.Repo.SetDefault(ctx, userID, resumeID)
}

// Delete removes a resume and its file. Storage failures are logged and do
// not prevent the record from being removed.
func (s *Service) Delete(ctx context.Context, resumeID, userID int64) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	res, err := s.owned(ctx, resumeID, userID)
	if err != nil {
		return err
	}

	if err := s.Files.Delete(ctx, res.FilePath); err != nil {
		telemetry.Warn("resume.file_delete_failed", map[string]any{
			"user_id":   userID,
			"resume_id": resumeID,
			"key":       res.FilePath,
			"error":     err,
		})
	}

	promoted, err := s.Repo.Delete(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if promoted != nil {
		telemetry.Info("resume.default_promoted", map[string]any{
			"user_id":   userID,
			"resume_id": promoted.ID,
		})
	}
	return nil
}

// View returns the resume file for inline display.
func (s *Service) View(ctx context.Context, resumeID, userID int64) ([]byte, Resume, error) {
	res, err := s.owned(ctx, resumeID, userID)
	if err != nil {
		return nil, Resume{}, err
	}
	body, err := s.Files.Load(ctx, res.FilePath)
	if err != nil {
		return nil, Resume{}, err
	}
	return body, res, nil
}

// Download returns the resume file for saving.
func (s *Service) Download(ctx context.Context, resumeID, userID int64) ([]byte, Resume, error) {
	return s.View(ctx, resumeID, userID)
}

// Count returns how many resumes the user has.
func (s *Service) Count(ctx context.Context, userID int64) (int64, error) {
	return s.Repo.CountByUser(ctx, userID)
}

// URLFor renders the client-facing reference for a resume file.
func (s *Service) URLFor(res Resume) string {
	return s.Files.URLFor(res.FilePath)
}

// owned loads a resume and hides resumes of other users behind ErrNotFound.
func (s *Service) owned(ctx context.Context, resumeID, userID int64) (Resume, error) {
	res, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if !s.Guard.CanAccessResume(userID, res.UserID) {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// discard removes a stored file whose record could not be written. This
// includes a put that completed before the request context was cancelled.
func (s *Service) discard(key string) {
	if err := s.Files.Delete(context.Background(), key); err != nil {
		telemetry.Warn("resume.orphan_cleanup_failed", map[string]any{"key": key, "error": err})
	}
}

// userLocks hands out one mutex per user so default changes for a user are
// serialized while different users proceed independently.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*userLock)
	}
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
