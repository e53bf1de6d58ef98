package s3

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

func TestClampTTL(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, MaxPresignTTL},
		{-time.Second, MaxPresignTTL},
		{time.Hour, time.Hour},
		{8760 * time.Hour, MaxPresignTTL},
	}
	for _, tc := range cases {
		if got := ClampTTL(tc.in); got != tc.want {
			t.Fatalf("ClampTTL(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPresignUsesEndpointAndExpiry(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, logger.Nop(), Config{
		Bucket:          "media",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
		TTL:             8760 * time.Hour,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	raw, err := s.SignedURL(ctx, "slides/deck.png")
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Host != "localhost:9000" || !strings.HasPrefix(u.Path, "/media/slides/deck.png") {
		t.Fatalf("unexpected url %q", raw)
	}
	if got := u.Query().Get("X-Amz-Expires"); got != "604800" {
		t.Fatalf("X-Amz-Expires = %q, want 604800", got)
	}
}
