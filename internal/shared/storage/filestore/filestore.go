// Package filestore is the single entry point the domain uses to store and
// read user documents. It hides which backend is configured and translates
// backend failures into a small set of errors handlers can map to responses.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
)

const (
	KindLocal       = "local"
	KindObjectStore = "object-store"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnavailable  = errors.New("storage unavailable")
	ErrInvalidInput = errors.New("invalid document reference")
)

// Options configures a Service.
type Options struct {
	Kind      string
	PublicURL string
	// Prefix is the folder the object-store backend nests every key under.
	Prefix string
	Keys   *object.KeyGenerator
}

// Service stores and retrieves documents through the configured backend.
type Service struct {
	backend   object.Backend
	kind      string
	publicURL string
	prefix    string
	keys      *object.KeyGenerator
}

// New builds a Service. A nil backend is allowed and makes every operation
// fail with ErrUnavailable.
func New(backend object.Backend, opts Options) *Service {
	keys := opts.Keys
	if keys == nil {
		keys = object.NewKeyGenerator()
	}
	kind := opts.Kind
	if kind == "" {
		kind = KindLocal
	}
	return &Service{
		backend:   backend,
		kind:      kind,
		publicURL: strings.TrimRight(strings.TrimSpace(opts.PublicURL), "/"),
		prefix:    strings.Trim(strings.TrimSpace(opts.Prefix), "/"),
		keys:      keys,
	}
}

// Kind returns the configured backend kind.
func (s *Service) Kind() string {
	return s.kind
}

// Available reports whether a backend is configured.
func (s *Service) Available() bool {
	return s.backend != nil
}

// Store writes body under a fresh key in folder and returns the key.
func (s *Service) Store(ctx context.Context, folder, fileName, contentType string, body []byte) (string, error) {
	if s.backend == nil {
		return "", fmt.Errorf("store folder=%s: %w", folder, ErrUnavailable)
	}
	key, err := s.keys.NewKey(folder, fileName)
	if err != nil {
		return "", fmt.Errorf("store folder=%s: %w", folder, translate(err))
	}
	start := metrics.NowMillis()
	err = s.backend.Put(ctx, key, body, contentType)
	metrics.ObserveStorageDurationMs(metrics.NowMillis() - start)
	if err != nil {
		metrics.IncStorageFailure("put")
		telemetry.Error("storage.put_failed", map[string]any{"backend": s.kind, "key": key, "error": err})
		return "", fmt.Errorf("store key=%s: %w", key, translate(err))
	}
	metrics.ObserveDocumentUpload(len(body))
	return key, nil
}

// Load returns the bytes stored under key.
func (s *Service) Load(ctx context.Context, key string) ([]byte, error) {
	if s.backend == nil {
		return nil, fmt.Errorf("load key=%s: %w", key, ErrUnavailable)
	}
	start := metrics.NowMillis()
	data, err := s.backend.Get(ctx, key)
	metrics.ObserveStorageDurationMs(metrics.NowMillis() - start)
	if err != nil {
		translated := translate(err)
		if errors.Is(translated, ErrUnavailable) {
			metrics.IncStorageFailure("get")
		}
		return nil, fmt.Errorf("load key=%s: %w", key, translated)
	}
	metrics.IncDocumentDownload()
	return data, nil
}

// Delete removes the document under key. Missing documents are not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	if s.backend == nil {
		return fmt.Errorf("delete key=%s: %w", key, ErrUnavailable)
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		translated := translate(err)
		if errors.Is(translated, ErrNotFound) {
			return nil
		}
		metrics.IncStorageFailure("delete")
		return fmt.Errorf("delete key=%s: %w", key, translated)
	}
	metrics.IncDocumentDelete()
	return nil
}

// URLFor renders a client-facing reference for key. Object-store keys are
// resolved against the public URL, including the bucket prefix, when one is
// configured.
func (s *Service) URLFor(key string) string {
	if key == "" {
		return ""
	}
	if s.kind != KindObjectStore || s.publicURL == "" {
		return key
	}
	objectKey := strings.TrimLeft(key, "/")
	if s.prefix != "" {
		objectKey = s.prefix + "/" + objectKey
	}
	return s.publicURL + "/" + objectKey
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, object.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, object.ErrInvalidKey):
		return ErrInvalidInput
	case errors.Is(err, object.ErrUnavailable):
		return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
}
