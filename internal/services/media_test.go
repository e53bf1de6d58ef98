package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestMediaUploadDownscales(t *testing.T) {
	ctx := context.Background()
	store := media.NewMemoryStore("http://media.test", time.Hour)
	svc := NewMediaService(testutil.Logger(t), store, 400, observability.NewMetrics())

	res, err := svc.Upload(ctx, media.KindReadingImage, "Map.PNG", bytes.NewReader(pngBytes(t, 1200, 600)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(res.Key, media.ReadingImagePrefix) || !strings.HasSuffix(res.Key, ".png") {
		t.Fatalf("key = %q", res.Key)
	}
	if res.ContentType != "image/png" || !strings.HasPrefix(res.URL, "http://media.test/"+res.Key) {
		t.Fatalf("unexpected result: %+v", res)
	}
	data, _, ok := store.Get(res.Key)
	if !ok {
		t.Fatalf("object not stored")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode stored png: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 200 {
		t.Fatalf("stored size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestMediaUploadRejects(t *testing.T) {
	ctx := context.Background()
	svc := NewMediaService(testutil.Logger(t), media.NewMemoryStore("http://media.test", time.Hour), 0, nil)

	_, err := svc.Upload(ctx, media.Kind("video"), "a.png", bytes.NewReader([]byte("x")))
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.Upload(ctx, media.KindSlide, "notes.exe", bytes.NewReader([]byte("x")))
	requireStatus(t, err, http.StatusBadRequest)
	_, err = svc.Upload(ctx, media.KindSlide, "slide.png", bytes.NewReader(nil))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.SignedURL(ctx, "../etc/passwd")
	requireStatus(t, err, http.StatusBadRequest)
	if err := svc.Delete(ctx, "slides/missing.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
