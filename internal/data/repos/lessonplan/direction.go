package lessonplan

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type DirectionRepo interface {
	Create(dbc dbctx.Context, row *types.Direction) (*types.Direction, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Direction, error)
	ListBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.Direction, error)
	Update(dbc dbctx.Context, row *types.Direction) error
	UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) error
	// ClearActivityRefs nulls activity references to deleted activities.
	ClearActivityRefs(dbc dbctx.Context, activityIDs []uuid.UUID) error
}

type directionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDirectionRepo(db *gorm.DB, baseLog *logger.Logger) DirectionRepo {
	return &directionRepo{db: db, log: baseLog.With("repo", "DirectionRepo")}
}

func (r *directionRepo) Create(dbc dbctx.Context, row *types.Direction) (*types.Direction, error) {
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

func (r *directionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Direction, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Direction
	if err := t.WithContext(dbc.Ctx).Where("direction_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *directionRepo) ListBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.Direction, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Direction
	if len(sectionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("section_id IN ?", sectionIDs).
		Order("section_id ASC").
		Order(byOrder).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *directionRepo) Update(dbc dbctx.Context, row *types.Direction) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Model(row).Select("*").Omit("created_at").Updates(row).Error
}

func (r *directionRepo) UpdateOrders(dbc dbctx.Context, orders map[uuid.UUID]int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	for id, ord := range orders {
		res := t.WithContext(dbc.Ctx).Model(&types.Direction{}).Where("direction_id = ?", id).Update("order", ord)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update direction order: %s not found", id)
		}
	}
	return nil
}

func (r *directionRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("direction_id IN ?", ids).Delete(&types.Direction{}).Error
}

func (r *directionRepo) DeleteBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(sectionIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("section_id IN ?", sectionIDs).Delete(&types.Direction{}).Error
}

func (r *directionRepo) ClearActivityRefs(dbc dbctx.Context, activityIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(activityIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.Direction{}).
		Where("activity_id IN ?", activityIDs).
		Update("activity_id", nil).Error
}
