package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"jobboard-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "resumes/user_1/file.pdf", want: "resumes/user_1/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "resumes/file.pdf", want: "root/resumes/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "resumes/file.pdf", want: "root/resumes/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/resumes/file.pdf", want: "root/resumes/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "cover-letters/file.pdf", want: "root/sub/cover-letters/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

// fakeBucket serves the subset of the S3 path-style API the store uses.
type fakeBucket struct {
	name     string
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	requests atomic.Int64
}

func newFakeBucket(name string) *fakeBucket {
	return &fakeBucket{name: name, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket != f.name {
		writeS3Error(w, http.StatusNotFound, "NoSuchBucket")
		return
	}

	if key == "" {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			writeS3Error(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("Content-Type", f.types[key])
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	case http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeBucket) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>`+code+`</Code><Message>`+code+`</Message></Error>`)
}

func newTestStore(t *testing.T, prefix string) (*Store, *fakeBucket) {
	t.Helper()
	bucket := newFakeBucket("test-bucket")
	server := httptest.NewServer(bucket)
	t.Cleanup(server.Close)

	store := New(context.Background(), Config{
		Endpoint:  server.URL,
		AccessKey: "test-access",
		SecretKey: "test-secret",
		Bucket:    bucket.name,
		Prefix:    prefix,
	})
	if store.Degraded() {
		t.Fatalf("store unexpectedly degraded: %s", store.Reason())
	}
	return store, bucket
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		size int
	}{
		{name: "one byte", size: 1},
		{name: "ten MiB", size: 10 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := bytes.Repeat([]byte{'r'}, tt.size)
			key := "resumes/user_7/" + strings.ReplaceAll(tt.name, " ", "-") + ".pdf"
			if err := store.Put(ctx, key, body, "application/pdf"); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := store.Get(ctx, key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !bytes.Equal(got, body) {
				t.Fatalf("round trip mismatch: got %d bytes want %d", len(got), len(body))
			}
		})
	}
}

func TestPrefixIsApplied(t *testing.T) {
	store, bucket := newTestStore(t, "/tenant/")
	ctx := context.Background()

	if err := store.Put(ctx, "cover-letters/a_letter.pdf", []byte("%PDF"), "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !bucket.has("tenant/cover-letters/a_letter.pdf") {
		t.Fatalf("expected object under prefixed key")
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store, _ := newTestStore(t, "")

	_, err := store.Get(context.Background(), "resumes/missing.pdf")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExistsAndDelete(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()
	key := "resumes/user_1/abc_cv.pdf"

	ok, err := store.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("exists before put = %v, %v", ok, err)
	}
	if err := store.Put(ctx, key, []byte("%PDF"), "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err = store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("exists after put = %v, %v", ok, err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	ok, err = store.Exists(ctx, key)
	if err != nil || ok {
		t.Fatalf("exists after delete = %v, %v", ok, err)
	}
}

func TestTraversalKeyRejectedBeforeRequest(t *testing.T) {
	store, bucket := newTestStore(t, "")
	before := bucket.requests.Load()

	err := store.Put(context.Background(), "resumes/../../secret.pdf", []byte("x"), "application/pdf")
	if !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if after := bucket.requests.Load(); after != before {
		t.Fatalf("expected no request, got %d", after-before)
	}
}

func TestProbe(t *testing.T) {
	store, _ := newTestStore(t, "")
	if err := store.Probe(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}

	bucket := newFakeBucket("other")
	server := httptest.NewServer(bucket)
	defer server.Close()
	missing := New(context.Background(), Config{
		Endpoint:  server.URL,
		AccessKey: "a",
		SecretKey: "b",
		Bucket:    "absent",
	})
	if err := missing.Probe(context.Background()); err == nil {
		t.Fatalf("expected probe error for missing bucket")
	}
	if missing.Degraded() {
		t.Fatalf("probe failure must not degrade the store")
	}
}

func TestDegradedConfig(t *testing.T) {
	bucket := newFakeBucket("test-bucket")
	server := httptest.NewServer(bucket)
	defer server.Close()

	base := Config{Endpoint: server.URL, AccessKey: "a", SecretKey: "b", Bucket: bucket.name}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }},
		{name: "missing access key", mutate: func(c *Config) { c.AccessKey = "" }},
		{name: "missing secret key", mutate: func(c *Config) { c.SecretKey = "  " }},
		{name: "missing bucket", mutate: func(c *Config) { c.Bucket = "" }},
		{name: "malformed endpoint", mutate: func(c *Config) { c.Endpoint = "not a url" }},
		{name: "endpoint without scheme", mutate: func(c *Config) { c.Endpoint = "example.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			store := New(context.Background(), cfg)
			if !store.Degraded() {
				t.Fatalf("expected degraded store")
			}
			if store.Reason() == "" {
				t.Fatalf("expected degraded reason")
			}
			ctx := context.Background()

			if err := store.Put(ctx, "resumes/a.pdf", []byte("x"), "application/pdf"); !errors.Is(err, object.ErrUnavailable) {
				t.Fatalf("put: expected ErrUnavailable, got %v", err)
			}
			if _, err := store.Get(ctx, "resumes/a.pdf"); !errors.Is(err, object.ErrUnavailable) {
				t.Fatalf("get: expected ErrUnavailable, got %v", err)
			}
			if _, err := store.Exists(ctx, "resumes/a.pdf"); !errors.Is(err, object.ErrUnavailable) {
				t.Fatalf("exists: expected ErrUnavailable, got %v", err)
			}
			if err := store.Delete(ctx, "resumes/a.pdf"); !errors.Is(err, object.ErrUnavailable) {
				t.Fatalf("delete: expected ErrUnavailable, got %v", err)
			}
			if err := store.Probe(ctx); !errors.Is(err, object.ErrUnavailable) {
				t.Fatalf("probe: expected ErrUnavailable, got %v", err)
			}
		})
	}

	if n := bucket.requests.Load(); n != 0 {
		t.Fatalf("degraded stores issued %d requests", n)
	}
}

func TestDegradedErrorDoesNotLeakSecret(t *testing.T) {
	store := New(context.Background(), Config{Endpoint: "::bad", AccessKey: "AKIA-visible", SecretKey: "super-secret", Bucket: "b"})
	err := store.Put(context.Background(), "resumes/a.pdf", []byte("x"), "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if strings.Contains(err.Error(), "super-secret") || strings.Contains(err.Error(), "AKIA-visible") {
		t.Fatalf("error leaks credentials: %v", err)
	}
}
