package user

import (
	"context"
	"testing"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

func TestUserRepoEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))
	created, err := repo.Create(dbc, []*types.User{{Email: "  Teacher@School.ORG ", PasswordHash: "x", FirstName: "T", LastName: "R", Role: "teacher"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].Email != "teacher@school.org" {
		t.Fatalf("email not normalized: %q", created[0].Email)
	}

	got, err := repo.GetByEmail(dbc, "TEACHER@school.org")
	if err != nil || got == nil || got.ID != created[0].ID {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if got, _ := repo.GetByEmail(dbc, ""); got != nil {
		t.Fatalf("blank email should return nil")
	}
}
