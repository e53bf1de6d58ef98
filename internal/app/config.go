package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/db"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/envutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/gcp"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

const (
	MediaBackendGCS    = "gcs"
	MediaBackendS3     = "s3"
	MediaBackendMemory = "memory"
)

type Config struct {
	Env  string
	Port string

	DB db.Config

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	InvitationSecret   string
	InvitationTokenTTL time.Duration
	RedisAddr          string

	MediaBackend      string
	MediaBucket       string
	MediaSignedURLTTL time.Duration
	MediaMaxWidth     int
	MediaBaseURL      string
	GCSSignerEmail    string
	GCSPrivateKeyFile string
	GCSEmulatorHost   string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool

	AllowedOrigins []string

	OtelEnabled     bool
	OtelExporter    string
	OtelSampleRatio float64
	MetricsEnabled  bool
}

func (c Config) Production() bool { return c.Env == "production" }

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded", "error", err)
	}

	cfg := Config{
		Env:  strings.ToLower(envutil.String("APP_ENV", "development", log)),
		Port: envutil.String("PORT", "8080", log),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "", log),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,

		InvitationSecret:   envutil.String("INVITATION_JWT_SECRET", "", log),
		InvitationTokenTTL: envutil.Duration("INVITATION_TOKEN_TTL", services.DefaultInvitationTokenTTL, log),
		RedisAddr:          envutil.String("REDIS_ADDR", "", log),

		MediaBackend:      strings.ToLower(envutil.String("MEDIA_BACKEND", MediaBackendMemory, log)),
		MediaBucket:       envutil.String("MEDIA_BUCKET", "", log),
		MediaSignedURLTTL: envutil.Duration("MEDIA_SIGNED_URL_TTL", gcp.DefaultSignedURLTTL, log),
		MediaMaxWidth:     envutil.Int("MEDIA_MAX_IMAGE_WIDTH", 1600, log),
		MediaBaseURL:      envutil.String("MEDIA_BASE_URL", "http://localhost:8080/media", log),
		GCSSignerEmail:    envutil.String("GCS_SIGNER_EMAIL", "", log),
		GCSPrivateKeyFile: envutil.String("GCS_PRIVATE_KEY_FILE", "", log),
		GCSEmulatorHost:   envutil.String("STORAGE_EMULATOR_HOST", "", log),
		S3Region:          envutil.String("S3_REGION", "us-east-1", log),
		S3Endpoint:        envutil.String("S3_ENDPOINT", "", log),
		S3AccessKeyID:     envutil.String("S3_ACCESS_KEY_ID", "", nil),
		S3SecretAccessKey: envutil.String("S3_SECRET_ACCESS_KEY", "", nil),
		S3UsePathStyle:    envutil.Bool("S3_USE_PATH_STYLE", false),

		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OtelExporter:    envutil.String("OTEL_EXPORTER", "", log),
		OtelSampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", true),
	}
	cfg.DB = db.Config{
		Driver:     strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres, log)),
		DSN:        postgresDSN(log),
		SQLitePath: envutil.String("SQLITE_PATH", "", log),
		MaxOpen:    envutil.Int("DB_MAX_OPEN_CONNS", 20, log),
		MaxIdle:    envutil.Int("DB_MAX_IDLE_CONNS", 5, log),
	}

	if cfg.JWTSecretKey == "" || cfg.InvitationSecret == "" {
		if cfg.Production() {
			return Config{}, fmt.Errorf("JWT_SECRET_KEY and INVITATION_JWT_SECRET are required in production")
		}
		log.Warn("JWT secrets not set; using development defaults")
		if cfg.JWTSecretKey == "" {
			cfg.JWTSecretKey = "dev-access-secret"
		}
		if cfg.InvitationSecret == "" {
			cfg.InvitationSecret = "dev-invitation-secret"
		}
	}
	switch cfg.MediaBackend {
	case MediaBackendGCS, MediaBackendS3, MediaBackendMemory:
	default:
		return Config{}, fmt.Errorf("unsupported MEDIA_BACKEND %q", cfg.MediaBackend)
	}
	return cfg, nil
}

// postgresDSN prefers POSTGRES_DSN and otherwise assembles one from the POSTGRES_* parts.
func postgresDSN(log *logger.Logger) string {
	if dsn := envutil.String("POSTGRES_DSN", "", nil); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		envutil.String("POSTGRES_USER", "postgres", log),
		envutil.String("POSTGRES_PASSWORD", "", nil),
		envutil.String("POSTGRES_HOST", "localhost", log),
		envutil.String("POSTGRES_PORT", "5432", log),
		envutil.String("POSTGRES_NAME", "pelicaned", log),
		envutil.String("POSTGRES_SSLMODE", "disable", log),
	)
}
