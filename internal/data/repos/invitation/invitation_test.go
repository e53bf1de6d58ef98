package invitation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

func TestInvitationCodeLookupAndUseCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	ay := testutil.SeedAcademicYear(t, ctx, tx, nil, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC))
	a := testutil.SeedInvitationCode(t, ctx, tx, "AB12CD", "teacher", ay.ID, nil, testutil.PtrInt(5))
	b := testutil.SeedInvitationCode(t, ctx, tx, "ZZ99ZZ", "student", ay.ID, nil, nil)
	testutil.SeedInvitationUses(t, ctx, tx, a.ID, 3)

	codes := NewInvitationCodeRepo(db, testutil.Logger(t))
	uses := NewInvitationCodeUseRepo(db, testutil.Logger(t))

	got, err := codes.GetByCode(dbc, "AB12CD")
	if err != nil || got == nil || got.ID != a.ID {
		t.Fatalf("GetByCode: got=%v err=%v", got, err)
	}
	if missing, err := codes.GetByCode(dbc, "ab12cd"); err != nil || missing != nil {
		t.Fatalf("lookup must be exact: got=%v err=%v", missing, err)
	}

	n, err := uses.CountByCode(dbc, a.ID)
	if err != nil || n != 3 {
		t.Fatalf("CountByCode = %d, %v", n, err)
	}
	if _, err := uses.Record(dbc, b.ID, uuid.New(), time.Now()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	counts, err := uses.CountByCodes(dbc, []uuid.UUID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("CountByCodes: %v", err)
	}
	if counts[a.ID] != 3 || counts[b.ID] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	exists, err := codes.CodeExists(dbc, "ZZ99ZZ")
	if err != nil || !exists {
		t.Fatalf("CodeExists: %v %v", exists, err)
	}
}
