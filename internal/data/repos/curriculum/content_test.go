package curriculum

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/curriculum"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

func TestContentReposCoverEveryKind(t *testing.T) {
	db := testutil.DB(t)
	repos := NewContentRepos(db, testutil.Logger(t))
	for _, kind := range curriculum.Kinds {
		r, err := repos.Get(kind)
		if err != nil {
			t.Fatalf("missing strategy for %s: %v", kind, err)
		}
		if r.Kind() != kind || r.NewDetail().Kind() != kind {
			t.Fatalf("strategy for %s reports %s", kind, r.Kind())
		}
	}
	if _, err := repos.Get("video"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestContentTableSaveInsertsThenUpdates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	lesson := testutil.SeedLesson(t, ctx, tx)
	act := testutil.SeedActivity(t, ctx, tx, lesson.ID, 1)
	repos := NewContentRepos(db, testutil.Logger(t))

	q := &curriculum.Question{ActivityID: act.ID, QuestionText: "Why?", QuestionType: curriculum.QuestionTypeShortAnswer}
	q.SetPosition(0)
	if err := repos[curriculum.KindQuestion].Save(dbc, q); err != nil {
		t.Fatalf("Save insert: %v", err)
	}
	if q.ID == uuid.Nil {
		t.Fatalf("expected lazily generated id")
	}

	q.QuestionText = "Why not?"
	if err := repos[curriculum.KindQuestion].Save(dbc, q); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	rows, err := repos[curriculum.KindQuestion].ListByActivities(dbc, []uuid.UUID{act.ID})
	if err != nil {
		t.Fatalf("ListByActivities: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 question, got %d", len(rows))
	}
	got := rows[0].(*curriculum.Question)
	if got.QuestionText != "Why not?" || got.ID != q.ID {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestInTextSourceUsesActvityColumn(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	lesson := testutil.SeedLesson(t, ctx, tx)
	act := testutil.SeedActivity(t, ctx, tx, lesson.ID, 1)
	repos := NewContentRepos(db, testutil.Logger(t))

	src := &curriculum.InTextSource{ActivityID: act.ID, Title: "Primary source"}
	if err := repos[curriculum.KindInTextSource].Save(dbc, src); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var n int64
	if err := tx.Table("in_text_source").Where("actvity_id = ?", act.ID).Count(&n).Error; err != nil {
		t.Fatalf("raw count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected row keyed by actvity_id, got %d", n)
	}
}

func TestDeleteExceptKeepsListedRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	lesson := testutil.SeedLesson(t, ctx, tx)
	act := testutil.SeedActivity(t, ctx, tx, lesson.ID, 1)
	other := testutil.SeedActivity(t, ctx, tx, lesson.ID, 2)
	repo := NewContentRepos(db, testutil.Logger(t))[curriculum.KindReading]

	keep := &curriculum.Reading{ActivityID: act.ID, Body: "keep"}
	drop := &curriculum.Reading{ActivityID: act.ID, Body: "drop"}
	foreign := &curriculum.Reading{ActivityID: other.ID, Body: "other activity"}
	for _, r := range []*curriculum.Reading{keep, drop, foreign} {
		if err := repo.Save(dbc, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	if err := repo.DeleteExcept(dbc, act.ID, []uuid.UUID{keep.ID}); err != nil {
		t.Fatalf("DeleteExcept: %v", err)
	}
	rows, err := repo.ListByActivities(dbc, []uuid.UUID{act.ID, other.ID})
	if err != nil {
		t.Fatalf("ListByActivities: %v", err)
	}
	ids := map[uuid.UUID]bool{}
	for _, r := range rows {
		ids[r.ContentID()] = true
	}
	if !ids[keep.ID] || ids[drop.ID] || !ids[foreign.ID] {
		t.Fatalf("unexpected survivors: %v", ids)
	}

	if err := repo.DeleteExcept(dbc, act.ID, nil); err != nil {
		t.Fatalf("DeleteExcept all: %v", err)
	}
	rows, _ = repo.ListByActivities(dbc, []uuid.UUID{act.ID})
	if len(rows) != 0 {
		t.Fatalf("expected no rows left, got %d", len(rows))
	}
}

func TestVocabularySaveReplacesAndCollapses(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	lesson := testutil.SeedLesson(t, ctx, tx)
	act := testutil.SeedActivity(t, ctx, tx, lesson.ID, 1)
	repo := NewVocabularyRepo(db, testutil.Logger(t))

	list := &curriculum.VocabularyList{ActivityID: act.ID, Items: []curriculum.VocabularyItem{
		{Word: "delta", Definition: "a river mouth"},
		{Word: "levee", Definition: "an embankment"},
	}}
	list.SetPosition(2)
	if err := repo.Save(dbc, list); err != nil {
		t.Fatalf("Save: %v", err)
	}
	list.Items = []curriculum.VocabularyItem{{Word: "levee", Definition: "an embankment"}, {Word: "delta", Definition: "a river mouth"}, {Word: "silt", Definition: "fine sand"}}
	if err := repo.Save(dbc, list); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	words, err := repo.ListWordsByActivities(dbc, []uuid.UUID{act.ID})
	if err != nil {
		t.Fatalf("ListWordsByActivities: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 stored words after replace, got %d", len(words))
	}

	got, err := repo.ListByActivities(dbc, []uuid.UUID{act.ID})
	if err != nil {
		t.Fatalf("ListByActivities: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one collapsed list, got %d", len(got))
	}
	collapsed := got[0].(*curriculum.VocabularyList)
	if collapsed.ID == list.ID {
		t.Fatalf("collapsed list should carry a fresh synthetic id")
	}
	if collapsed.Items[0].Word != "levee" || collapsed.Items[2].Word != "silt" {
		t.Fatalf("items not in vocab_order: %+v", collapsed.Items)
	}
	if collapsed.Order == nil || *collapsed.Order != 2 {
		t.Fatalf("expected order 2, got %v", collapsed.Order)
	}
}

func TestCollapseVocabularySortsByVocabOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	three := 3
	words := []*curriculum.VocabularyWord{
		{ActivityID: a, Word: "second", VocabOrder: 1},
		{ActivityID: b, Word: "only", VocabOrder: 0, Order: &three},
		{ActivityID: a, Word: "first", VocabOrder: 0},
	}
	out := CollapseVocabulary(words)
	if len(out) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(out))
	}
	first := out[0].(*curriculum.VocabularyList)
	if first.ActivityID != a || first.Items[0].Word != "first" || first.Items[1].Word != "second" {
		t.Fatalf("unexpected first group: %+v", first)
	}
	if first.Order != nil {
		t.Fatalf("expected nil order when none stored")
	}
	second := out[1].(*curriculum.VocabularyList)
	if second.Order == nil || *second.Order != 3 {
		t.Fatalf("unexpected second group order: %v", second.Order)
	}
}
