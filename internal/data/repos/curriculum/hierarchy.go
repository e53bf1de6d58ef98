package curriculum

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, row *types.Subject) (*types.Subject, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	List(dbc dbctx.Context) ([]*types.Subject, error)
	Count(dbc dbctx.Context) (int64, error)
	Update(dbc dbctx.Context, row *types.Subject) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error
}

type subjectRepo struct {
	t   orderedTable[types.Subject]
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{
		t:   orderedTable[types.Subject]{db: db, pkCol: "subject_id"},
		log: baseLog.With("repo", "SubjectRepo"),
	}
}

func (r *subjectRepo) Create(dbc dbctx.Context, row *types.Subject) (*types.Subject, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.t.create(dbc, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	return r.t.getByID(dbc, id)
}

func (r *subjectRepo) List(dbc dbctx.Context) ([]*types.Subject, error) {
	return r.t.listByParent(dbc, uuid.Nil)
}

func (r *subjectRepo) Count(dbc dbctx.Context) (int64, error) {
	return r.t.countByParent(dbc, uuid.Nil)
}

func (r *subjectRepo) Update(dbc dbctx.Context, row *types.Subject) error {
	return r.t.update(dbc, row)
}

func (r *subjectRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.t.delete(dbc, id)
}

func (r *subjectRepo) UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	return r.t.updateOrders(dbc, orders)
}

type UnitRepo interface {
	Create(dbc dbctx.Context, row *types.Unit) (*types.Unit, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Unit, error)
	ListBySubject(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.Unit, error)
	CountBySubject(dbc dbctx.Context, subjectID uuid.UUID) (int64, error)
	Update(dbc dbctx.Context, row *types.Unit) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error
}

type unitRepo struct {
	t   orderedTable[types.Unit]
	log *logger.Logger
}

func NewUnitRepo(db *gorm.DB, baseLog *logger.Logger) UnitRepo {
	return &unitRepo{
		t:   orderedTable[types.Unit]{db: db, pkCol: "unit_id", parentCol: "subject_id"},
		log: baseLog.With("repo", "UnitRepo"),
	}
}

func (r *unitRepo) Create(dbc dbctx.Context, row *types.Unit) (*types.Unit, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.t.create(dbc, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *unitRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Unit, error) {
	return r.t.getByID(dbc, id)
}

func (r *unitRepo) ListBySubject(dbc dbctx.Context, subjectID uuid.UUID) ([]*types.Unit, error) {
	return r.t.listByParent(dbc, subjectID)
}

func (r *unitRepo) CountBySubject(dbc dbctx.Context, subjectID uuid.UUID) (int64, error) {
	return r.t.countByParent(dbc, subjectID)
}

func (r *unitRepo) Update(dbc dbctx.Context, row *types.Unit) error { return r.t.update(dbc, row) }

func (r *unitRepo) Delete(dbc dbctx.Context, id uuid.UUID) error { return r.t.delete(dbc, id) }

func (r *unitRepo) UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	return r.t.updateOrders(dbc, orders)
}

type ChapterRepo interface {
	Create(dbc dbctx.Context, row *types.Chapter) (*types.Chapter, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	ListByUnit(dbc dbctx.Context, unitID uuid.UUID) ([]*types.Chapter, error)
	CountByUnit(dbc dbctx.Context, unitID uuid.UUID) (int64, error)
	Update(dbc dbctx.Context, row *types.Chapter) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error
}

type chapterRepo struct {
	t   orderedTable[types.Chapter]
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{
		t:   orderedTable[types.Chapter]{db: db, pkCol: "chapter_id", parentCol: "unit_id"},
		log: baseLog.With("repo", "ChapterRepo"),
	}
}

func (r *chapterRepo) Create(dbc dbctx.Context, row *types.Chapter) (*types.Chapter, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.t.create(dbc, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	return r.t.getByID(dbc, id)
}

func (r *chapterRepo) ListByUnit(dbc dbctx.Context, unitID uuid.UUID) ([]*types.Chapter, error) {
	return r.t.listByParent(dbc, unitID)
}

func (r *chapterRepo) CountByUnit(dbc dbctx.Context, unitID uuid.UUID) (int64, error) {
	return r.t.countByParent(dbc, unitID)
}

func (r *chapterRepo) Update(dbc dbctx.Context, row *types.Chapter) error {
	return r.t.update(dbc, row)
}

func (r *chapterRepo) Delete(dbc dbctx.Context, id uuid.UUID) error { return r.t.delete(dbc, id) }

func (r *chapterRepo) UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	return r.t.updateOrders(dbc, orders)
}

type LessonRepo interface {
	Create(dbc dbctx.Context, row *types.Lesson) (*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]*types.Lesson, error)
	CountByChapter(dbc dbctx.Context, chapterID uuid.UUID) (int64, error)
	Update(dbc dbctx.Context, row *types.Lesson) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error
}

type lessonRepo struct {
	t   orderedTable[types.Lesson]
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{
		t:   orderedTable[types.Lesson]{db: db, pkCol: "lesson_id", parentCol: "chapter_id"},
		log: baseLog.With("repo", "LessonRepo"),
	}
}

func (r *lessonRepo) Create(dbc dbctx.Context, row *types.Lesson) (*types.Lesson, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.t.create(dbc, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	return r.t.getByID(dbc, id)
}

func (r *lessonRepo) ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]*types.Lesson, error) {
	return r.t.listByParent(dbc, chapterID)
}

func (r *lessonRepo) CountByChapter(dbc dbctx.Context, chapterID uuid.UUID) (int64, error) {
	return r.t.countByParent(dbc, chapterID)
}

func (r *lessonRepo) Update(dbc dbctx.Context, row *types.Lesson) error {
	return r.t.update(dbc, row)
}

func (r *lessonRepo) Delete(dbc dbctx.Context, id uuid.UUID) error { return r.t.delete(dbc, id) }

func (r *lessonRepo) UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	return r.t.updateOrders(dbc, orders)
}
