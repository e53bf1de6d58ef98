package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"
)

func TestNewKeyPrefixes(t *testing.T) {
	cases := []struct {
		kind   Kind
		file   string
		prefix string
		ext    string
	}{
		{KindReadingImage, "Map.PNG", ReadingImagePrefix, ".png"},
		{KindSlide, "deck.jpg", SlidePrefix, ".jpg"},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			key, err := NewKey(tc.kind, tc.file)
			if err != nil {
				t.Fatalf("NewKey: %v", err)
			}
			if !strings.HasPrefix(key, tc.prefix) || !strings.HasSuffix(key, tc.ext) {
				t.Fatalf("unexpected key %q", key)
			}
		})
	}

	if _, err := NewKey("avatar", "a.png"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := NewKey(KindSlide, "notes.exe"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := Downscale(buf.Bytes(), "image/png", 100)
	if err != nil {
		t.Fatalf("Downscale: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}

	same, err := Downscale(buf.Bytes(), "image/png", 1000)
	if err != nil || !bytes.Equal(same, buf.Bytes()) {
		t.Fatalf("narrow image should be unchanged")
	}
	pdf := []byte("%PDF-1.4")
	if got, _ := Downscale(pdf, "application/pdf", 10); !bytes.Equal(got, pdf) {
		t.Fatalf("non-image content should pass through")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("http://localhost:8080/media/", time.Hour)

	if err := s.Put(ctx, "slides/a.png", strings.NewReader("data"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ct, ok := s.Get("slides/a.png")
	if !ok || string(data) != "data" || ct != "image/png" {
		t.Fatalf("Get: %q %q %v", data, ct, ok)
	}
	url, err := s.SignedURL(ctx, "slides/a.png")
	if err != nil || !strings.HasPrefix(url, "http://localhost:8080/media/slides/a.png?expires=") {
		t.Fatalf("SignedURL: %q %v", url, err)
	}
	if err := s.Delete(ctx, "slides/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, ok := s.Get("slides/a.png"); ok {
		t.Fatalf("object should be gone")
	}
}
