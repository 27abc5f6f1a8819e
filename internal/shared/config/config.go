package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Defaults for the sync pipeline. The watch dir mirrors the stock Android
// call-recording location so configs migrated from handsets keep working.
const (
	DefaultWatchDir     = "/storage/emulated/0/Recordings/Call/"
	DefaultPollInterval = 5 * time.Second
	DefaultUploadDelay  = 1 * time.Second
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string
	APIToken        string

	UploadBaseURL   string
	UploadAuthToken string
	UploadXSRFToken string

	WatchDir     string
	PollInterval time.Duration
	UploadDelay  time.Duration

	ArchiveStoreType string
	LocalArchiveDir  string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	uploadBase := strings.TrimRight(getEnv("UPLOAD_BASE_URL", ""), "/")

	if env == "production" && uploadBase == "" {
		log.Printf("UPLOAD_BASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:              env,
		DatabaseURL:      dbURL,
		APIToken:         getEnv("API_TOKEN", ""),
		UploadBaseURL:    uploadBase,
		UploadAuthToken:  getEnv("UPLOAD_AUTH_TOKEN", ""),
		UploadXSRFToken:  getEnv("UPLOAD_XSRF_TOKEN", ""),
		WatchDir:         getEnv("WATCH_DIR", DefaultWatchDir),
		PollInterval:     getDuration("POLL_INTERVAL", DefaultPollInterval),
		UploadDelay:      getDuration("UPLOAD_DELAY", DefaultUploadDelay),
		ArchiveStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "off")),
		LocalArchiveDir:  getEnv("LOCAL_ARCHIVE_DIR", "./archive"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
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
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "off"
	}
}
