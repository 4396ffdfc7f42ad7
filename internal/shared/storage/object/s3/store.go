package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
)

const defaultRegion = "auto"

// Config holds connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// Store implements object.Backend on an S3-compatible bucket.
// A Store built from unusable configuration is degraded: it keeps the reason
// and fails every operation with object.ErrUnavailable without network I/O.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
	reason string
}

// New creates an S3-backed store. It never fails; configuration problems are
// logged and produce a degraded store.
func New(ctx context.Context, cfg Config) *Store {
	s := &Store{
		bucket: strings.TrimSpace(cfg.Bucket),
		prefix: normalizePrefix(cfg.Prefix),
	}

	if reason := checkConfig(cfg); reason != "" {
		return s.degrade(reason)
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			strings.TrimSpace(cfg.AccessKey),
			strings.TrimSpace(cfg.SecretKey),
			"",
		)),
	)
	if err != nil {
		return s.degrade("failed to load client configuration: " + err.Error())
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		o.RetryMaxAttempts = 1
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	telemetry.Info("storage.object_store_configured", map[string]any{
		"bucket": s.bucket,
		"prefix": s.prefix,
	})
	return s
}

// Degraded reports whether the store refuses all operations.
func (s *Store) Degraded() bool {
	return s.client == nil
}

// Reason describes why the store is degraded, or "" when it is usable.
func (s *Store) Reason() string {
	return s.reason
}

// Probe verifies the bucket is reachable. Failures are logged and returned
// but never make the store unusable.
func (s *Store) Probe(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		if isNotFound(err) {
			telemetry.Warn("storage.bucket_missing", map[string]any{"bucket": s.bucket})
		} else {
			telemetry.Warn("storage.bucket_unreachable", map[string]any{"bucket": s.bucket, "error": err})
		}
		return fmt.Errorf("s3 head bucket bucket=%s: %w", s.bucket, err)
	}
	telemetry.Info("storage.bucket_ready", map[string]any{"bucket": s.bucket})
	return nil
}

// Put uploads body to the bucket under key.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := object.ValidateKey(key); err != nil {
		return err
	}

	objectKey := applyPrefix(s.prefix, key)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put object bucket=%s key=%s: %w: %w", s.bucket, objectKey, object.ErrUnavailable, err)
	}
	return nil
}

// Get downloads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := object.ValidateKey(key); err != nil {
		return nil, err
	}

	objectKey := applyPrefix(s.prefix, key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, objectKey, object.ErrNotFound)
		}
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w: %w", s.bucket, objectKey, object.ErrUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object bucket=%s key=%s: %w: %w", s.bucket, objectKey, object.ErrUnavailable, err)
	}
	return data, nil
}

// Delete removes the object under key. Request failures are logged and
// treated as success since the object may already be gone.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := object.ValidateKey(key); err != nil {
		return err
	}

	objectKey := applyPrefix(s.prefix, key)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil && !isNotFound(err) {
		telemetry.Warn("storage.delete_failed", map[string]any{
			"backend": "object-store",
			"bucket":  s.bucket,
			"key":     objectKey,
			"error":   err,
		})
	}
	return nil
}

// Exists reports whether an object is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if err := object.ValidateKey(key); err != nil {
		return false, err
	}

	objectKey := applyPrefix(s.prefix, key)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head object bucket=%s key=%s: %w: %w", s.bucket, objectKey, object.ErrUnavailable, err)
	}
	return true, nil
}

func (s *Store) degrade(reason string) *Store {
	s.client = nil
	s.reason = reason
	telemetry.Warn("storage.object_store_degraded", map[string]any{
		"reason": reason,
		"hint":   "fix the object store settings or set STORAGE_TYPE=local",
	})
	return s
}

func (s *Store) ready() error {
	if s.client == nil {
		return fmt.Errorf("%w: object store not configured: %s", object.ErrUnavailable, s.reason)
	}
	return nil
}

func checkConfig(cfg Config) string {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	switch {
	case endpoint == "":
		return "endpoint is not set"
	case strings.TrimSpace(cfg.AccessKey) == "":
		return "access key is not set"
	case strings.TrimSpace(cfg.SecretKey) == "":
		return "secret key is not set"
	case strings.TrimSpace(cfg.Bucket) == "":
		return "bucket is not set"
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "endpoint is malformed, expected http(s)://host"
	}
	return ""
}

func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

var _ object.Backend = (*Store)(nil)
