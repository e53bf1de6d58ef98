package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type SchoolRepo interface {
	Create(dbc dbctx.Context, row *types.School) (*types.School, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.School, error)
	ListByDistrict(dbc dbctx.Context, districtID uuid.UUID) ([]*types.School, error)
}

type schoolRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchoolRepo(db *gorm.DB, baseLog *logger.Logger) SchoolRepo {
	return &schoolRepo{db: db, log: baseLog.With("repo", "SchoolRepo")}
}

func (r *schoolRepo) Create(dbc dbctx.Context, row *types.School) (*types.School, error) {
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

func (r *schoolRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.School, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.School
	if err := t.WithContext(dbc.Ctx).Where("school_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *schoolRepo) ListByDistrict(dbc dbctx.Context, districtID uuid.UUID) ([]*types.School, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.School
	if districtID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("district_id = ?", districtID).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
