// Package media stores uploaded reading images and slides and hands out signed read URLs.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type Kind string

const (
	KindReadingImage Kind = "reading_image"
	KindSlide        Kind = "slide"
)

const (
	ReadingImagePrefix = "reading_images/"
	SlidePrefix        = "slides/"
)

var (
	ErrUnknownKind     = errors.New("unknown media kind")
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrNotFound        = errors.New("media object not found")
)

// Store is an object store keyed by media key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

func (k Kind) Prefix() (string, error) {
	switch k {
	case KindReadingImage:
		return ReadingImagePrefix, nil
	case KindSlide:
		return SlidePrefix, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
}

// NewKey builds "<prefix><uuid><ext>" from the original file name.
func NewKey(kind Kind, filename string) (string, error) {
	prefix, err := kind.Prefix()
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	if ContentTypeForKey("x"+ext) == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return prefix + uuid.NewString() + ext, nil
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	default:
		return ""
	}
}

// Downscale shrinks JPEG and PNG images wider than maxWidth, keeping the aspect ratio.
// Other content types and images already narrow enough are returned unchanged.
func Downscale(data []byte, contentType string, maxWidth int) ([]byte, error) {
	var format imaging.Format
	switch contentType {
	case "image/jpeg":
		format = imaging.JPEG
	case "image/png":
		format = imaging.PNG
	default:
		return data, nil
	}
	if maxWidth <= 0 {
		return data, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= maxWidth {
		return data, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// MemoryStore keeps objects in process memory and signs URLs against BaseURL.
type MemoryStore struct {
	BaseURL string
	TTL     time.Duration

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore(baseURL string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		TTL:     ttl,
		objects: map[string]memoryObject{},
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

func (m *MemoryStore) SignedURL(_ context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrNotFound
	}
	exp := m.now().Add(m.TTL).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", m.BaseURL, key, exp), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get returns a stored object.
func (m *MemoryStore) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, obj.contentType, ok
}
