package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64][]Resume // userID -> resumes
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[int64][]Resume),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new resume for its owner.
func (r *MemoryRepo) Create(ctx context.Context, res Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	res.ID = r.nextID
	if res.UploadedAt.IsZero() {
		res.UploadedAt = r.now()
	}
	if res.IsDefault {
		for _, existing := range r.data[res.UserID] {
			if existing.IsDefault {
				res.IsDefault = false
				break
			}
		}
	}
	r.data[res.UserID] = append(r.data[res.UserID], res)
	return res, nil
}

// GetByID returns a resume regardless of owner.
func (r *MemoryRepo) GetByID(ctx context.Context, resumeID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, list := range r.data {
		for _, res := range list {
			if res.ID == resumeID {
				return res, nil
			}
		}
	}
	return Resume{}, ErrNotFound
}

// ListByUser returns the user's resumes, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, len(r.data[userID]))
	copy(out, r.data[userID])
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// GetDefault returns the user's default resume.
func (r *MemoryRepo) GetDefault(ctx context.Context, userID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.data[userID] {
		if res.IsDefault {
			return res, nil
		}
	}
	return Resume{}, ErrNotFound
}

// CountByUser returns how many resumes the user has.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.data[userID])), nil
}

// SetDefault marks resumeID as the user's only default.
func (r *MemoryRepo) SetDefault(ctx context.Context, userID, resumeID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.data[userID]
	idx := -1
	for i := range list {
		if list[i].ID == resumeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Resume{}, ErrNotFound
	}
	for i := range list {
		list[i].IsDefault = i == idx
	}
	return list[idx], nil
}

// Delete removes resumeID and promotes the newest remaining resume when
// the deleted one was the default.
func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID int64) (*Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.data[userID]
	idx := -1
	for i := range list {
		if list[i].ID == resumeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	wasDefault := list[idx].IsDefault
	list = append(list[:idx:idx], list[idx+1:]...)
	r.data[userID] = list
	if len(list) == 0 {
		delete(r.data, userID)
		return nil, nil
	}
	if !wasDefault {
		return nil, nil
	}

	newest := 0
	for i := range list {
		if newerThan(list[i], list[newest]) {
			newest = i
		}
	}
	list[newest].IsDefault = true
	promoted := list[newest]
	return &promoted, nil
}

func sortNewestFirst(list []Resume) {
	sort.SliceStable(list, func(i, j int) bool {
		return newerThan(list[i], list[j])
	})
}

// newerThan orders by upload time, breaking ties by ID.
func newerThan(a, b Resume) bool {
	if !a.UploadedAt.Equal(b.UploadedAt) {
		return a.UploadedAt.After(b.UploadedAt)
	}
	return a.ID > b.ID
}

var _ Repo = (*MemoryRepo)(nil)
