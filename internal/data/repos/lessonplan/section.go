package lessonplan

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type SectionRepo interface {
	Create(dbc dbctx.Context, row *types.Section) (*types.Section, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Section, error)
	ListByPlan(dbc dbctx.Context, lessonPlanID uuid.UUID) ([]*types.Section, error)
	ListIDsByPlans(dbc dbctx.Context, lessonPlanIDs []uuid.UUID) ([]uuid.UUID, error)
	Update(dbc dbctx.Context, row *types.Section) error
	UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: baseLog.With("repo", "SectionRepo")}
}

func (r *sectionRepo) Create(dbc dbctx.Context, row *types.Section) (*types.Section, error) {
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

func (r *sectionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Section, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Section
	if err := t.WithContext(dbc.Ctx).Where("section_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *sectionRepo) ListByPlan(dbc dbctx.Context, lessonPlanID uuid.UUID) ([]*types.Section, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Section
	if lessonPlanID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("lesson_plan_id = ?", lessonPlanID).
		Order(byOrder).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionRepo) ListIDsByPlans(dbc dbctx.Context, lessonPlanIDs []uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if len(lessonPlanIDs) == 0 {
		return ids, nil
	}
	if err := t.WithContext(dbc.Ctx).Model(&types.Section{}).
		Where("lesson_plan_id IN ?", lessonPlanIDs).
		Pluck("section_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sectionRepo) Update(dbc dbctx.Context, row *types.Section) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Model(row).Select("*").Omit("created_at").Updates(row).Error
}

func (r *sectionRepo) UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	for id, ord := range orders {
		res := t.WithContext(dbc.Ctx).Model(&types.Section{}).Where("section_id = ?", id).Update("order", ord)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update section order: %s not found", id)
		}
	}
	return nil
}

func (r *sectionRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("section_id IN ?", ids).Delete(&types.Section{}).Error
}
