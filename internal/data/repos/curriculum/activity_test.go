package curriculum

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

func TestActivityRepoListByLessonOrdersByOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	lesson := testutil.SeedLesson(t, ctx, tx)
	third := testutil.SeedActivity(t, ctx, tx, lesson.ID, 3)
	first := testutil.SeedActivity(t, ctx, tx, lesson.ID, 1)
	second := testutil.SeedActivity(t, ctx, tx, lesson.ID, 2)

	repo := NewActivityRepo(db, testutil.Logger(t))
	rows, err := repo.ListByLesson(dbc, lesson.ID)
	if err != nil {
		t.Fatalf("ListByLesson: %v", err)
	}
	if len(rows) != 3 || rows[0].ID != first.ID || rows[1].ID != second.ID || rows[2].ID != third.ID {
		t.Fatalf("unexpected order: %+v", rows)
	}

	ok, err := repo.Exists(dbc, second.ID)
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}
	if err := repo.DeleteByIDs(dbc, []uuid.UUID{second.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	ids, err := repo.ListIDsByLesson(dbc, lesson.ID)
	if err != nil {
		t.Fatalf("ListIDsByLesson: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids after delete, got %d", len(ids))
	}
	if got, _ := repo.GetByID(dbc, second.ID); got != nil {
		t.Fatalf("deleted activity still readable")
	}
}

func TestHierarchyUpdateOrders(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	subject := testutil.SeedSubject(t, ctx, tx, "Math")
	repo := NewUnitRepo(db, testutil.Logger(t))
	a, _ := repo.Create(dbc, newUnit(subject.ID, "A", 1))
	b, _ := repo.Create(dbc, newUnit(subject.ID, "B", 2))

	if err := repo.UpdateOrders(dbc, map[uuid.UUID]int{a.ID: 2, b.ID: 1}); err != nil {
		t.Fatalf("UpdateOrders: %v", err)
	}
	rows, err := repo.ListBySubject(dbc, subject.ID)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if rows[0].ID != b.ID || rows[1].ID != a.ID {
		t.Fatalf("reorder not applied")
	}
	if err := repo.UpdateOrders(dbc, map[uuid.UUID]int{uuid.New(): 1}); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}
