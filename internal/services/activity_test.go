package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/media"
)

func newActivityService(t *testing.T, db *gorm.DB) ActivityService {
	t.Helper()
	log := testutil.Logger(t)
	return NewActivityService(
		db,
		log,
		repos.NewLessonRepo(db, log),
		repos.NewActivityRepo(db, log),
		repos.NewContentRepos(db, log),
		repos.NewDirectionRepo(db, log),
		media.NewMemoryStore("http://media.test", time.Hour),
		observability.NewMetrics(),
	)
}

type child struct {
	kind   types.Kind
	detail types.Content
}

func lessonInput(groups ...[]child) *LessonActivities {
	in := &LessonActivities{
		ActivityTypes: map[uuid.UUID][]types.ActivityType{},
		Details:       map[uuid.UUID]types.Content{},
	}
	for i, g := range groups {
		a := &types.Activity{ID: uuid.New(), Name: "Activity", Order: 40 - i, Published: types.PublishedNo}
		in.Activities = append(in.Activities, a)
		for j, c := range g {
			id := uuid.New()
			in.ActivityTypes[a.ID] = append(in.ActivityTypes[a.ID], types.ActivityType{ID: id, Type: c.kind, Order: 9 - j})
			in.Details[id] = c.detail
		}
	}
	return in
}

func multipleChoice() *types.Question {
	return &types.Question{
		QuestionText:  "Which river?",
		QuestionType:  "multiple_choice",
		AnswerOptions: datatypes.JSON(`[{"text":"Nile","correct":true},{"text":"Amazon","correct":false}]`),
	}
}

func everyKind() []child {
	return []child{
		{types.KindReading, &types.Reading{Title: "Intro", Body: "Rivers shape cities."}},
		{types.KindReadingAddon, &types.ReadingAddon{Body: "Addon"}},
		{types.KindSubReading, &types.SubReading{Body: "Sub"}},
		{types.KindSource, &types.Source{Title: "Atlas", URL: "https://example.org/atlas"}},
		{types.KindInTextSource, &types.InTextSource{Title: "Footnote"}},
		{types.KindQuestion, multipleChoice()},
		{types.KindGraphicOrganizer, &types.GraphicOrganizer{Title: "KWL", Table: datatypes.JSON(`{"template":"kwl","headers":["Know","Want to Know","Learned"],"rows":[["","",""]]}`)}},
		{types.KindVocabulary, &types.VocabularyList{Items: []types.VocabularyItem{{Word: "delta", Definition: "river mouth"}, {Word: "basin", Definition: "drained area"}}}},
		{types.KindImage, &types.Image{ImageKey: "reading_images/map.png", Caption: "Map"}},
	}
}

var childTables = map[string]string{
	"readings":           "activity_id",
	"reading_addons":     "activity_id",
	"sub_readings":       "activity_id",
	"sources":            "activity_id",
	"in_text_source":     "actvity_id",
	"questions":          "activity_id",
	"graphic_organizers": "activity_id",
	"vocabulary":         "activity_id",
	"images":             "activity_id",
}

func countChildren(t *testing.T, db *gorm.DB, activityID uuid.UUID) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for table, fk := range childTables {
		var n int64
		if err := db.Table(table).Where(fk+" = ?", activityID).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		out[table] = n
	}
	return out
}

func TestSaveLessonOrdersAndRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	lesson := testutil.SeedLesson(t, ctx, db)
	svc := newActivityService(t, db)

	in := lessonInput(
		everyKind(),
		[]child{
			{types.KindQuestion, multipleChoice()},
			{types.KindReading, &types.Reading{Body: "Second"}},
		},
	)
	wantTypes := map[uuid.UUID][]types.Kind{}
	for _, a := range in.Activities {
		for _, at := range in.ActivityTypes[a.ID] {
			wantTypes[a.ID] = append(wantTypes[a.ID], at.Type)
		}
	}

	got, err := svc.SaveLesson(ctx, lesson.ID, in)
	if err != nil {
		t.Fatalf("SaveLesson: %v", err)
	}
	if len(got.Activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(got.Activities))
	}
	for i, a := range got.Activities {
		if a.Order != i+1 {
			t.Fatalf("activity %d order = %d, want %d", i, a.Order, i+1)
		}
		if a.ID != in.Activities[i].ID {
			t.Fatalf("activity %d is %s, want %s", i, a.ID, in.Activities[i].ID)
		}
		children := got.ActivityTypes[a.ID]
		if len(children) != len(wantTypes[a.ID]) {
			t.Fatalf("activity %d has %d children, want %d", i, len(children), len(wantTypes[a.ID]))
		}
		for j, at := range children {
			if at.Order != j {
				t.Fatalf("activity %d child %d order = %d", i, j, at.Order)
			}
			if at.Type != wantTypes[a.ID][j] {
				t.Fatalf("activity %d child %d type = %s, want %s", i, j, at.Type, wantTypes[a.ID][j])
			}
			if got.Details[at.ID] == nil {
				t.Fatalf("missing detail for %s", at.ID)
			}
		}
	}

	first := got.ActivityTypes[got.Activities[0].ID]
	vocab, ok := got.Details[first[7].ID].(*types.VocabularyList)
	if !ok || len(vocab.Items) != 2 || vocab.Items[0].Word != "delta" || vocab.Items[1].Word != "basin" {
		t.Fatalf("vocabulary not round-tripped in order: %#v", got.Details[first[7].ID])
	}
	img, ok := got.Details[first[8].ID].(*types.Image)
	if !ok || img.URL == "" {
		t.Fatalf("image url should be signed: %#v", got.Details[first[8].ID])
	}
	reading, ok := got.Details[first[0].ID].(*types.Reading)
	if !ok || reading.Body != "Rivers shape cities." || first[0].ID != in.ActivityTypes[in.Activities[0].ID][0].ID {
		t.Fatalf("reading detail not persisted under its activity type id")
	}
}

func TestSaveLessonRemovesOrphans(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	lesson := testutil.SeedLesson(t, ctx, db)
	svc := newActivityService(t, db)

	in := lessonInput(
		[]child{
			{types.KindReading, &types.Reading{Body: "Keep"}},
			{types.KindQuestion, multipleChoice()},
			{types.KindVocabulary, &types.VocabularyList{Items: []types.VocabularyItem{{Word: "a", Definition: "b"}}}},
		},
		everyKind(),
	)
	saved, err := svc.SaveLesson(ctx, lesson.ID, in)
	if err != nil {
		t.Fatalf("SaveLesson: %v", err)
	}
	keptID := saved.Activities[0].ID
	droppedID := saved.Activities[1].ID

	// Drop the second activity and the question and vocabulary of the first.
	next := &LessonActivities{
		Activities:    []*types.Activity{saved.Activities[0]},
		ActivityTypes: map[uuid.UUID][]types.ActivityType{keptID: saved.ActivityTypes[keptID][:1]},
		Details:       saved.Details,
	}
	reloaded, err := svc.SaveLesson(ctx, lesson.ID, next)
	if err != nil {
		t.Fatalf("second SaveLesson: %v", err)
	}
	if len(reloaded.Activities) != 1 || len(reloaded.ActivityTypes[keptID]) != 1 {
		t.Fatalf("unexpected reload: %d activities, %d children", len(reloaded.Activities), len(reloaded.ActivityTypes[keptID]))
	}

	kept := countChildren(t, db, keptID)
	if kept["readings"] != 1 || kept["questions"] != 0 || kept["vocabulary"] != 0 {
		t.Fatalf("stale children of kept activity: %v", kept)
	}
	for table, n := range countChildren(t, db, droppedID) {
		if n != 0 {
			t.Fatalf("orphaned %s rows remain: %d", table, n)
		}
	}
	var n int64
	db.Table("activities").Where("activity_id = ?", droppedID).Count(&n)
	if n != 0 {
		t.Fatalf("orphaned activity row remains")
	}
}

func TestSaveLessonKeepsOtherLessonsRows(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	lessonA := testutil.SeedLesson(t, ctx, db)
	lessonB := testutil.SeedLesson(t, ctx, db)
	svc := newActivityService(t, db)

	savedB, err := svc.SaveLesson(ctx, lessonB.ID, lessonInput([]child{{types.KindReading, &types.Reading{Body: "B owns this"}}}))
	if err != nil {
		t.Fatalf("SaveLesson B: %v", err)
	}
	bActivity := savedB.Activities[0].ID
	bReading := savedB.ActivityTypes[bActivity][0].ID

	t.Run("activity id of another lesson", func(t *testing.T) {
		in := &LessonActivities{
			Activities:    []*types.Activity{{ID: bActivity, Name: "Taken"}},
			ActivityTypes: map[uuid.UUID][]types.ActivityType{},
			Details:       map[uuid.UUID]types.Content{},
		}
		_, err := svc.SaveLesson(ctx, lessonA.ID, in)
		requireStatus(t, err, http.StatusConflict)
	})

	t.Run("activity type id of another lesson", func(t *testing.T) {
		in := lessonInput(nil)
		a := in.Activities[0]
		in.ActivityTypes[a.ID] = []types.ActivityType{{ID: bReading, Type: types.KindReading}}
		in.Details[bReading] = &types.Reading{Body: "Overwritten"}
		_, err := svc.SaveLesson(ctx, lessonA.ID, in)
		requireStatus(t, err, http.StatusConflict)

		var n int64
		db.Table("activities").Where("lesson_id = ?", lessonA.ID).Count(&n)
		if n != 0 {
			t.Fatalf("rejected save left %d activities in lesson A", n)
		}
	})

	after, err := svc.LoadLesson(ctx, lessonB.ID)
	if err != nil {
		t.Fatalf("LoadLesson B: %v", err)
	}
	if len(after.Activities) != 1 || after.Activities[0].ID != bActivity {
		t.Fatalf("lesson B activities changed: %+v", after.Activities)
	}
	reading, ok := after.Details[bReading].(*types.Reading)
	if !ok || reading.Body != "B owns this" || reading.ActivityID != bActivity {
		t.Fatalf("lesson B reading changed: %#v", after.Details[bReading])
	}
}

func TestSaveLessonRejectsInvalidDetailsBeforeWriting(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	lesson := testutil.SeedLesson(t, ctx, db)
	svc := newActivityService(t, db)

	cases := map[string]child{
		"one answer option": {types.KindQuestion, &types.Question{
			QuestionText:  "Q",
			QuestionType:  "multiple_choice",
			AnswerOptions: datatypes.JSON(`[{"text":"only","correct":true}]`),
		}},
		"no correct answer": {types.KindQuestion, &types.Question{
			QuestionText:  "Q",
			QuestionType:  "multiple_choice",
			AnswerOptions: datatypes.JSON(`[{"text":"a"},{"text":"b"}]`),
		}},
		"reading without body": {types.KindReading, &types.Reading{Title: "Empty"}},
		"image outside prefix": {types.KindImage, &types.Image{ImageKey: "slides/x.png"}},
		"empty vocabulary":     {types.KindVocabulary, &types.VocabularyList{}},
		"ragged table": {types.KindGraphicOrganizer, &types.GraphicOrganizer{
			Table: datatypes.JSON(`{"headers":["a","b"],"rows":[["x"]]}`),
		}},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SaveLesson(ctx, lesson.ID, lessonInput([]child{c}))
			ae, ok := apierr.As(err)
			if !ok || ae.Status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}

	twoVocab := lessonInput([]child{
		{types.KindVocabulary, &types.VocabularyList{Items: []types.VocabularyItem{{Word: "a", Definition: "b"}}}},
		{types.KindVocabulary, &types.VocabularyList{Items: []types.VocabularyItem{{Word: "c", Definition: "d"}}}},
	})
	if _, err := svc.SaveLesson(ctx, lesson.ID, twoVocab); err == nil {
		t.Fatalf("expected two vocabulary entries to be rejected")
	}

	var n int64
	db.Table("activities").Where("lesson_id = ?", lesson.ID).Count(&n)
	if n != 0 {
		t.Fatalf("rejected saves must not write, found %d activities", n)
	}
}

func TestSaveLessonUnknownLesson(t *testing.T) {
	db := testutil.DB(t)
	svc := newActivityService(t, db)
	_, err := svc.SaveLesson(context.Background(), uuid.New(), lessonInput())
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestDeleteActivityCascadesAllTables(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	lesson := testutil.SeedLesson(t, ctx, db)
	svc := newActivityService(t, db)

	saved, err := svc.SaveLesson(ctx, lesson.ID, lessonInput(everyKind()))
	if err != nil {
		t.Fatalf("SaveLesson: %v", err)
	}
	id := saved.Activities[0].ID
	for table, n := range countChildren(t, db, id) {
		if n == 0 {
			t.Fatalf("expected rows in %s before delete", table)
		}
	}

	if err := svc.DeleteActivity(ctx, id); err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}
	for table, n := range countChildren(t, db, id) {
		if n != 0 {
			t.Fatalf("%s still has %d rows", table, n)
		}
	}
	if err := svc.DeleteActivity(ctx, id); err == nil {
		t.Fatalf("deleting a missing activity should fail")
	} else if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestLoadLessonFallsBackToPosition(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	lesson := testutil.SeedLesson(t, ctx, db)
	activity := testutil.SeedActivity(t, ctx, db, lesson.ID, 1)

	first := &types.Reading{ID: uuid.New(), ActivityID: activity.ID, Body: "first"}
	second := &types.Reading{ID: uuid.New(), ActivityID: activity.ID, Body: "second"}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("seed reading: %v", err)
	}
	if err := db.Model(&types.Reading{}).Where("reading_id = ?", first.ID).Update("created_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("age reading: %v", err)
	}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("seed reading: %v", err)
	}

	got, err := newActivityService(t, db).LoadLesson(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("LoadLesson: %v", err)
	}
	children := got.ActivityTypes[activity.ID]
	if len(children) != 2 || children[0].ID != first.ID || children[0].Order != 0 || children[1].Order != 1 {
		t.Fatalf("unexpected children: %+v", children)
	}
}

func TestAssembleActivityTypesSkipsUnknownActivities(t *testing.T) {
	known := uuid.New()
	out := &LessonActivities{
		ActivityTypes: map[uuid.UUID][]types.ActivityType{known: {}},
		Details:       map[uuid.UUID]types.Content{},
	}
	stray := &types.Reading{ID: uuid.New(), ActivityID: uuid.New()}
	kept := &types.Reading{ID: uuid.New(), ActivityID: known}
	AssembleActivityTypes(out, types.KindReading, []types.Content{stray, kept})
	if len(out.ActivityTypes[known]) != 1 || out.Details[stray.ID] != nil {
		t.Fatalf("unexpected assembly: %+v", out.ActivityTypes)
	}
}
