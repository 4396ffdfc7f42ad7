package health

import (
	"context"
	"time"
)

// StorageReporter describes the document storage facade.
type StorageReporter interface {
	Kind() string
	Available() bool
}

// DegradedReporter is implemented by storage backends that can be configured
// but unusable.
type DegradedReporter interface {
	Degraded() bool
}

// Pinger checks database connectivity.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK       bool          `json:"ok"`
	Storage  StorageStatus `json:"storage"`
	Database string        `json:"database"`
}

// StorageStatus describes the configured document storage.
type StorageStatus struct {
	Kind      string `json:"kind"`
	Available bool   `json:"available"`
	Degraded  bool   `json:"degraded"`
}

// Service encapsulates health-related checks. Degraded dependencies are
// reported but never fail the check.
type Service struct {
	storage     StorageReporter
	backend     DegradedReporter
	db          Pinger
	pingTimeout time.Duration
}

// NewService constructs a new health service. backend and db may be nil.
func NewService(storage StorageReporter, backend DegradedReporter, db Pinger) *Service {
	return &Service{
		storage:     storage,
		backend:     backend,
		db:          db,
		pingTimeout: 2 * time.Second,
	}
}

// Status returns the current health payload.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory"}
	if s.storage != nil {
		st.Storage.Kind = s.storage.Kind()
		st.Storage.Available = s.storage.Available()
	}
	if s.backend != nil {
		st.Storage.Degraded = s.backend.Degraded()
	}
	if !st.Storage.Available {
		st.Storage.Degraded = true
	}
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
		defer cancel()
		if err := s.db.PingContext(pingCtx); err != nil {
			st.Database = "down"
		} else {
			st.Database = "up"
		}
	}
	return st
}
