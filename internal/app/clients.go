package app

import (
	"context"
	"fmt"

	"github.com/PelicanED-online/pelicaned-backend/internal/clients/redis"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/gcp"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/s3"
)

type Clients struct {
	Media  media.Store
	Ledger redis.TokenLedger
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	store, err := newMediaStore(ctx, log, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init media store: %w", err)
	}

	// Redis
	ledger, err := redis.NewTokenLedger(log, cfg.RedisAddr)
	if err != nil {
		return Clients{}, fmt.Errorf("init invitation token ledger: %w", err)
	}

	return Clients{Media: store, Ledger: ledger}, nil
}

func newMediaStore(ctx context.Context, log *logger.Logger, cfg Config) (media.Store, error) {
	switch cfg.MediaBackend {
	case MediaBackendGCS:
		return gcp.NewMediaStore(ctx, log, gcp.Config{
			Bucket:         cfg.MediaBucket,
			SignerEmail:    cfg.GCSSignerEmail,
			PrivateKeyFile: cfg.GCSPrivateKeyFile,
			EmulatorHost:   cfg.GCSEmulatorHost,
			TTL:            cfg.MediaSignedURLTTL,
		})
	case MediaBackendS3:
		return s3.New(ctx, log, s3.Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.MediaBucket,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PathStyle:       cfg.S3UsePathStyle,
			TTL:             cfg.MediaSignedURLTTL,
		})
	default:
		log.Warn("Using in-memory media store; uploads are lost on restart")
		return media.NewMemoryStore(cfg.MediaBaseURL, cfg.MediaSignedURLTTL), nil
	}
}

func (c Clients) Close() error {
	if c.Ledger == nil {
		return nil
	}
	return c.Ledger.Close()
}
