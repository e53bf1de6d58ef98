package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type AcademicYearRepo interface {
	Create(dbc dbctx.Context, row *types.AcademicYear) (*types.AcademicYear, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AcademicYear, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.AcademicYear, error)
	// List returns district years plus the global ones (nil district) when districtID is set,
	// every year otherwise.
	List(dbc dbctx.Context, districtID *uuid.UUID) ([]*types.AcademicYear, error)
}

type academicYearRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAcademicYearRepo(db *gorm.DB, baseLog *logger.Logger) AcademicYearRepo {
	return &academicYearRepo{db: db, log: baseLog.With("repo", "AcademicYearRepo")}
}

func (r *academicYearRepo) Create(dbc dbctx.Context, row *types.AcademicYear) (*types.AcademicYear, error) {
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

func (r *academicYearRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AcademicYear, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *academicYearRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.AcademicYear, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.AcademicYear
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("academic_year_id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *academicYearRepo) List(dbc dbctx.Context, districtID *uuid.UUID) ([]*types.AcademicYear, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.AcademicYear
	q := t.WithContext(dbc.Ctx)
	if districtID != nil && *districtID != uuid.Nil {
		q = q.Where("district_id = ? OR district_id IS NULL", *districtID)
	}
	if err := q.Order("expiry_date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
