package config

import (
	"os"
	"strconv"
	"strings"

	"jobboard-backend/internal/shared/telemetry"
)

const (
	StoreTypeLocal       = "local"
	StoreTypeObjectStore = "object-store"

	defaultResumeMaxBytes   = 10 << 20
	defaultUploadsPerMinute = 10
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string
	JWTSecret       string

	StorageType string
	UploadDir   string

	ObjectStoreEndpoint  string
	ObjectStoreAccessKey string
	ObjectStoreSecretKey string
	ObjectStoreBucket    string
	ObjectStoreRegion    string
	ObjectStorePrefix    string
	ObjectStorePublicURL string

	ResumeMaxBytes   int64
	UploadsPerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		DatabaseURL:     dbURL,
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),

		StorageType: normalizeStoreType(getEnv("STORAGE_TYPE", StoreTypeLocal)),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),

		ObjectStoreEndpoint:  getEnv("OBJECT_STORE_ENDPOINT", ""),
		ObjectStoreAccessKey: getEnv("OBJECT_STORE_ACCESS_KEY", ""),
		ObjectStoreSecretKey: getEnv("OBJECT_STORE_SECRET_KEY", ""),
		ObjectStoreBucket:    getEnv("OBJECT_STORE_BUCKET", "trabahanap-uploads"),
		ObjectStoreRegion:    getEnv("OBJECT_STORE_REGION", "auto"),
		ObjectStorePrefix:    getEnv("OBJECT_STORE_PREFIX", ""),
		ObjectStorePublicURL: getEnv("OBJECT_STORE_PUBLIC_URL", ""),

		ResumeMaxBytes:   getEnvInt64("RESUME_MAX_BYTES", defaultResumeMaxBytes),
		UploadsPerMinute: int(getEnvInt64("RATE_LIMIT_UPLOADS_PER_MINUTE", defaultUploadsPerMinute)),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "object-store", "objectstore", "s3", "r2":
		return StoreTypeObjectStore
	default:
		return StoreTypeLocal
	}
}
