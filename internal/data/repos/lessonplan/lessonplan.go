package lessonplan

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

var byOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

type LessonPlanRepo interface {
	Create(dbc dbctx.Context, row *types.LessonPlan) (*types.LessonPlan, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LessonPlan, error)
	GetByLesson(dbc dbctx.Context, lessonID uuid.UUID) (*types.LessonPlan, error)
	Update(dbc dbctx.Context, row *types.LessonPlan) error
	DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
}

type lessonPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonPlanRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanRepo {
	return &lessonPlanRepo{db: db, log: baseLog.With("repo", "LessonPlanRepo")}
}

func (r *lessonPlanRepo) Create(dbc dbctx.Context, row *types.LessonPlan) (*types.LessonPlan, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *lessonPlanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LessonPlan, error) {
	return r.first(dbc, "lesson_plan_id = ?", id)
}

func (r *lessonPlanRepo) GetByLesson(dbc dbctx.Context, lessonID uuid.UUID) (*types.LessonPlan, error) {
	return r.first(dbc, "lesson_id = ?", lessonID)
}

func (r *lessonPlanRepo) first(dbc dbctx.Context, where string, id uuid.UUID) (*types.LessonPlan, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.LessonPlan
	if err := t.WithContext(dbc.Ctx).Where(where, id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *lessonPlanRepo) Update(dbc dbctx.Context, row *types.LessonPlan) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Model(row).Select("*").Omit("created_at").Updates(row).Error
}

func (r *lessonPlanRepo) DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(lessonIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("lesson_id IN ?", lessonIDs).Delete(&types.LessonPlan{}).Error
}
