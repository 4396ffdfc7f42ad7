package applications

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[int64]Application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[int64]Application)}
}

// Put stores or replaces an application.
func (r *MemoryRepo) Put(app Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = app
}

// GetByID returns an application by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, applicationID int64) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// SetDocumentPaths fills empty document paths.
func (r *MemoryRepo) SetDocumentPaths(ctx context.Context, applicationID int64, coverLetter, resume *string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[applicationID]
	if !ok {
		return ErrNotFound
	}
	if (coverLetter != nil && app.CoverLetterPath != nil) || (resume != nil && app.ResumePath != nil) {
		return ErrAlreadyAttached
	}
	if coverLetter != nil {
		v := *coverLetter
		app.CoverLetterPath = &v
	}
	if resume != nil {
		v := *resume
		app.ResumePath = &v
	}
	r.data[applicationID] = app
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
