package curriculum

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type ActivityRepo interface {
	Create(dbc dbctx.Context, row *types.Activity) (*types.Activity, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Activity, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Activity, error)
	ListIDsByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]uuid.UUID, error)
	ListIDsByLessons(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]uuid.UUID, error)
	Update(dbc dbctx.Context, row *types.Activity) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(dbc dbctx.Context, row *types.Activity) (*types.Activity, error) {
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

func (r *activityRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Activity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Activity
	if err := t.WithContext(dbc.Ctx).Where("activity_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *activityRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.Activity{}).Where("activity_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *activityRepo) ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Activity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Activity
	if lessonID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("lesson_id = ?", lessonID).
		Order(byOrder).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) ListIDsByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]uuid.UUID, error) {
	return r.ListIDsByLessons(dbc, []uuid.UUID{lessonID})
}

func (r *activityRepo) ListIDsByLessons(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if len(lessonIDs) == 0 {
		return ids, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Activity{}).
		Where("lesson_id IN ?", lessonIDs).
		Pluck("activity_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *activityRepo) Update(dbc dbctx.Context, row *types.Activity) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Model(row).Select("*").Omit("created_at").Updates(row).Error
}

func (r *activityRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("activity_id IN ?", ids).Delete(&types.Activity{}).Error
}
