package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
)

// DefaultSignedURLTTL is roughly one year; V2 signing has no upper bound.
const DefaultSignedURLTTL = 8760 * time.Hour

type Config struct {
	Bucket string
	// SignerEmail and PrivateKeyFile sign URLs explicitly. When empty the
	// client derives them from the ambient credentials.
	SignerEmail    string
	PrivateKeyFile string
	// EmulatorHost points at a fake-gcs server; signed URLs become plain media URLs.
	EmulatorHost string
	TTL          time.Duration
}

type mediaStore struct {
	log          *logger.Logger
	client       *storage.Client
	bucket       string
	signerEmail  string
	privateKey   []byte
	emulatorHost string
	ttl          time.Duration
	now          func() time.Time
}

func NewMediaStore(ctx context.Context, log *logger.Logger, cfg Config) (media.Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("missing MEDIA_BUCKET for gcs media store")
	}
	serviceLog := log.With("service", "GCSMediaStore")

	var privateKey []byte
	if cfg.PrivateKeyFile != "" {
		b, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read GCS_PRIVATE_KEY_FILE: %w", err)
		}
		privateKey = b
	}

	emulator := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	var opts []option.ClientOption
	if emulator != "" {
		if u, err := url.Parse(emulator); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", cfg.EmulatorHost)
		}
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulator)
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	serviceLog.Info("Media storage initialized",
		"backend", "gcs",
		"bucket", cfg.Bucket,
		"emulator_host", emulator,
		"signed_url_ttl", ttl.String(),
	)
	return &mediaStore{
		log:          serviceLog,
		client:       client,
		bucket:       cfg.Bucket,
		signerEmail:  cfg.SignerEmail,
		privateKey:   privateKey,
		emulatorHost: emulator,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

func (s *mediaStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType == "" {
		contentType = media.ContentTypeForKey(key)
	}
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *mediaStore) SignedURL(_ context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", media.ErrNotFound
	}
	if s.emulatorHost != "" {
		return emulatorMediaURL(s.emulatorHost, s.bucket, key), nil
	}
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV2,
		Method:         "GET",
		Expires:        s.now().Add(s.ttl),
		GoogleAccessID: s.signerEmail,
		PrivateKey:     s.privateKey,
	}
	u, err := s.client.Bucket(s.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", key, err)
	}
	return u, nil
}

func (s *mediaStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete GCS object %s: %w", key, err)
	}
	return nil
}

func emulatorMediaURL(host, bucket, key string) string {
	return fmt.Sprintf("%s/download/storage/v1/b/%s/o/%s?alt=media",
		host, url.PathEscape(bucket), url.PathEscape(key))
}
