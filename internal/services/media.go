package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
)

const MaxUploadBytes = 20 << 20

type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type MediaService interface {
	Upload(ctx context.Context, kind media.Kind, filename string, r io.Reader) (*UploadResult, error)
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type mediaService struct {
	log      *logger.Logger
	store    media.Store
	maxWidth int
	metrics  *observability.Metrics
}

func NewMediaService(log *logger.Logger, store media.Store, maxWidth int, metrics *observability.Metrics) MediaService {
	return &mediaService{
		log:      log.With("service", "MediaService"),
		store:    store,
		maxWidth: maxWidth,
		metrics:  metrics,
	}
}

func (s *mediaService) Upload(ctx context.Context, kind media.Kind, filename string, r io.Reader) (*UploadResult, error) {
	res, err := s.upload(ctx, kind, filename, r)
	if err != nil {
		if _, ok := apierr.As(err); ok {
			s.metrics.IncMediaUpload(string(kind), "rejected")
		} else {
			s.metrics.IncMediaUpload(string(kind), "error")
		}
		return nil, err
	}
	s.metrics.IncMediaUpload(string(kind), "ok")
	return res, nil
}

func (s *mediaService) upload(ctx context.Context, kind media.Kind, filename string, r io.Reader) (*UploadResult, error) {
	key, err := media.NewKey(kind, filename)
	if err != nil {
		if errors.Is(err, media.ErrUnknownKind) || errors.Is(err, media.ErrUnsupportedType) {
			return nil, apierr.BadRequest("invalid_upload", err.Error())
		}
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apierr.BadRequest("invalid_upload", "file is empty")
	}
	if len(data) > MaxUploadBytes {
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "upload_too_large", fmt.Errorf("file exceeds %d bytes", MaxUploadBytes))
	}

	contentType := media.ContentTypeForKey(key)
	data, err = media.Downscale(data, contentType, s.maxWidth)
	if err != nil {
		return nil, apierr.BadRequest("invalid_upload", err.Error())
	}
	if err := s.store.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	url, err := s.store.SignedURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("sign upload url: %w", err)
	}
	s.log.Info("media uploaded", "key", key, "kind", kind, "bytes", len(data))
	return &UploadResult{Key: key, URL: url, ContentType: contentType, Size: len(data)}, nil
}

func checkMediaKey(key string) error {
	if strings.Contains(key, "..") ||
		!(strings.HasPrefix(key, media.ReadingImagePrefix) || strings.HasPrefix(key, media.SlidePrefix)) {
		return apierr.BadRequest("invalid_media_key", "key must be under "+media.ReadingImagePrefix+" or "+media.SlidePrefix)
	}
	return nil
}

func (s *mediaService) SignedURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if err := checkMediaKey(key); err != nil {
		return "", err
	}
	u, err := s.store.SignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("sign media url: %w", err)
	}
	return u, nil
}

func (s *mediaService) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if err := checkMediaKey(key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, media.ErrNotFound) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
