package curriculum

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/domain/curriculum"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

// ContentRepo is the load/save/delete strategy of one activity-type table.
type ContentRepo interface {
	Kind() curriculum.Kind
	// NewDetail returns an empty detail of this kind, for decoding.
	NewDetail() curriculum.Content
	ListByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) ([]curriculum.Content, error)
	Save(dbc dbctx.Context, detail curriculum.Content) error
	// OwnerOf returns the activity a persisted row belongs to, or uuid.Nil when id is not stored.
	OwnerOf(dbc dbctx.Context, id uuid.UUID) (uuid.UUID, error)
	DeleteByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) error
	// DeleteExcept removes rows of activityID whose ids are not in keep.
	DeleteExcept(dbc dbctx.Context, activityID uuid.UUID, keep []uuid.UUID) error
}

// ContentRepos is the strategy map keyed by kind.
type ContentRepos map[curriculum.Kind]ContentRepo

func NewContentRepos(db *gorm.DB, baseLog *logger.Logger) ContentRepos {
	return ContentRepos{
		curriculum.KindReading:          newContentTable[curriculum.Reading](db, baseLog, curriculum.KindReading, "reading_id", "activity_id"),
		curriculum.KindReadingAddon:     newContentTable[curriculum.ReadingAddon](db, baseLog, curriculum.KindReadingAddon, "reading_addon_id", "activity_id"),
		curriculum.KindSubReading:       newContentTable[curriculum.SubReading](db, baseLog, curriculum.KindSubReading, "sub_reading_id", "activity_id"),
		curriculum.KindSource:           newContentTable[curriculum.Source](db, baseLog, curriculum.KindSource, "source_id", "activity_id"),
		curriculum.KindInTextSource:     newContentTable[curriculum.InTextSource](db, baseLog, curriculum.KindInTextSource, "in_text_source_id", "actvity_id"),
		curriculum.KindQuestion:         newContentTable[curriculum.Question](db, baseLog, curriculum.KindQuestion, "question_id", "activity_id"),
		curriculum.KindGraphicOrganizer: newContentTable[curriculum.GraphicOrganizer](db, baseLog, curriculum.KindGraphicOrganizer, "graphic_organizer_id", "activity_id"),
		curriculum.KindVocabulary:       NewVocabularyRepo(db, baseLog),
		curriculum.KindImage:            newContentTable[curriculum.Image](db, baseLog, curriculum.KindImage, "image_id", "activity_id"),
	}
}

// Get returns the strategy for kind or an error for an unknown tag.
func (c ContentRepos) Get(kind curriculum.Kind) (ContentRepo, error) {
	r, ok := c[kind]
	if !ok {
		return nil, fmt.Errorf("unknown activity type %q", kind)
	}
	return r, nil
}

type contentRow[T any] interface {
	*T
	curriculum.Content
}

type contentTable[T any, P contentRow[T]] struct {
	db    *gorm.DB
	log   *logger.Logger
	kind  curriculum.Kind
	pkCol string
	fkCol string
}

func newContentTable[T any, P contentRow[T]](db *gorm.DB, baseLog *logger.Logger, kind curriculum.Kind, pkCol, fkCol string) ContentRepo {
	return &contentTable[T, P]{
		db:    db,
		log:   baseLog.With("repo", "ContentRepo", "kind", string(kind)),
		kind:  kind,
		pkCol: pkCol,
		fkCol: fkCol,
	}
}

func (r *contentTable[T, P]) Kind() curriculum.Kind { return r.kind }

func (r *contentTable[T, P]) NewDetail() curriculum.Content { return P(new(T)) }

func (r *contentTable[T, P]) ListByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) ([]curriculum.Content, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []curriculum.Content{}
	if len(activityIDs) == 0 {
		return out, nil
	}
	var rows []P
	if err := t.WithContext(dbc.Ctx).
		Where(r.fkCol+" IN ?", activityIDs).
		Order("created_at ASC").
		Order(r.pkCol + " ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	for _, row := range rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *contentTable[T, P]) Save(dbc dbctx.Context, detail curriculum.Content) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row, ok := detail.(P)
	if !ok || row == nil {
		return fmt.Errorf("save %s: unexpected detail %T", r.kind, detail)
	}
	if row.ContentID() == uuid.Nil {
		row.SetContentID(uuid.New())
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(new(T)).Where(r.pkCol+" = ?", row.ContentID()).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s: %w", r.kind, err)
	}
	if n == 0 {
		if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
			return fmt.Errorf("insert %s: %w", r.kind, err)
		}
		return nil
	}
	if err := t.WithContext(dbc.Ctx).Model(row).Select("*").Omit("created_at").Updates(row).Error; err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	return nil
}

func (r *contentTable[T, P]) OwnerOf(dbc dbctx.Context, id uuid.UUID) (uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return uuid.Nil, nil
	}
	var owners []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(new(T)).
		Where(r.pkCol+" = ?", id).
		Limit(1).
		Pluck(r.fkCol, &owners).Error; err != nil {
		return uuid.Nil, fmt.Errorf("owner of %s: %w", r.kind, err)
	}
	if len(owners) == 0 {
		return uuid.Nil, nil
	}
	return owners[0], nil
}

func (r *contentTable[T, P]) DeleteByActivities(dbc dbctx.Context, activityIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(activityIDs) == 0 {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).Where(r.fkCol+" IN ?", activityIDs).Delete(new(T)).Error; err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	return nil
}

func (r *contentTable[T, P]) DeleteExcept(dbc dbctx.Context, activityID uuid.UUID, keep []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Where(r.fkCol+" = ?", activityID)
	if len(keep) > 0 {
		q = q.Where(r.pkCol+" NOT IN ?", keep)
	}
	if err := q.Delete(new(T)).Error; err != nil {
		return fmt.Errorf("delete stale %s: %w", r.kind, err)
	}
	return nil
}
