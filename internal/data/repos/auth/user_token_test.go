package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo@example.com", "teacher")

	makeToken := func(refresh string, expires time.Time) *types.UserToken {
		return &types.UserToken{UserID: u.ID, RefreshToken: refresh, ExpiresAt: expires}
	}

	live := makeToken("refresh-1", time.Now().Add(time.Hour))
	stale := makeToken("refresh-2", time.Now().Add(-time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{live, stale}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if live.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	if rows, err := repo.GetByRefreshTokens(dbc, []string{"refresh-1"}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}

	n, err := repo.DeleteExpired(dbc, time.Now())
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired: n=%d err=%v", n, err)
	}

	if err := repo.DeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("DeleteByUserIDs: %v", err)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByUserIDs: err=%v len=%d", err, len(rows))
	}
}
