package org

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type DistrictRepo interface {
	Create(dbc dbctx.Context, row *types.District) (*types.District, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.District, error)
	List(dbc dbctx.Context) ([]*types.District, error)

	ListDomains(dbc dbctx.Context, districtID uuid.UUID) ([]*types.DistrictEmailDomain, error)
	AddDomain(dbc dbctx.Context, districtID uuid.UUID, domain string) (*types.DistrictEmailDomain, error)
	RemoveDomain(dbc dbctx.Context, districtID, domainID uuid.UUID) error
}

type districtRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDistrictRepo(db *gorm.DB, baseLog *logger.Logger) DistrictRepo {
	return &districtRepo{db: db, log: baseLog.With("repo", "DistrictRepo")}
}

func (r *districtRepo) Create(dbc dbctx.Context, row *types.District) (*types.District, error) {
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

func (r *districtRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.District, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.District
	if err := t.WithContext(dbc.Ctx).Where("district_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *districtRepo) List(dbc dbctx.Context) ([]*types.District, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.District
	if err := t.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *districtRepo) ListDomains(dbc dbctx.Context, districtID uuid.UUID) ([]*types.DistrictEmailDomain, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DistrictEmailDomain
	if districtID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("district_id = ?", districtID).
		Order("domain ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddDomain stores the domain lowercased, without a leading "@".
func (r *districtRepo) AddDomain(dbc dbctx.Context, districtID uuid.UUID, domain string) (*types.DistrictEmailDomain, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.DistrictEmailDomain{
		ID:         uuid.New(),
		DistrictID: districtID,
		Domain:     strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@"),
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *districtRepo) RemoveDomain(dbc dbctx.Context, districtID, domainID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("district_id = ? AND district_email_domain_id = ?", districtID, domainID).
		Delete(&types.DistrictEmailDomain{}).Error
}
