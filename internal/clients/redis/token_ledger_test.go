package redis

import (
	"context"
	"testing"
	"time"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

func TestMemoryLedgerSingleUse(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	ok, err := l.MarkConsumed(ctx, "jti-1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first MarkConsumed: ok=%v err=%v", ok, err)
	}
	ok, err = l.MarkConsumed(ctx, "jti-1", time.Minute)
	if err != nil || ok {
		t.Fatalf("second MarkConsumed should report already consumed: ok=%v err=%v", ok, err)
	}
	if ok, _ := l.MarkConsumed(ctx, "jti-2", time.Minute); !ok {
		t.Fatalf("jti-2 was never consumed")
	}
}

func TestMemoryLedgerRelease(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	if ok, _ := l.MarkConsumed(ctx, "jti", time.Minute); !ok {
		t.Fatalf("MarkConsumed failed")
	}
	if err := l.Release(ctx, "jti"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, _ := l.MarkConsumed(ctx, "jti", time.Minute); !ok {
		t.Fatalf("released jti should be claimable again")
	}
	if err := l.Release(ctx, "never-claimed"); err != nil {
		t.Fatalf("Release of unknown jti: %v", err)
	}
}

func TestMemoryLedgerExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := &memoryLedger{now: func() time.Time { return now }, seen: map[string]time.Time{}}

	if ok, _ := l.MarkConsumed(ctx, "jti", 30*time.Minute); !ok {
		t.Fatalf("MarkConsumed failed")
	}
	now = now.Add(31 * time.Minute)
	if ok, _ := l.MarkConsumed(ctx, "jti", 30*time.Minute); !ok {
		t.Fatalf("entry should have expired")
	}
}

func TestNewTokenLedgerWithoutAddrFallsBack(t *testing.T) {
	l, err := NewTokenLedger(logger.Nop(), "")
	if err != nil {
		t.Fatalf("NewTokenLedger: %v", err)
	}
	if _, ok := l.(*memoryLedger); !ok {
		t.Fatalf("expected memory ledger, got %T", l)
	}
}
