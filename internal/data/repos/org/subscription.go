package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	Create(dbc dbctx.Context, row *types.Subscription) (*types.Subscription, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error)
	ListByDistrict(dbc dbctx.Context, districtID uuid.UUID) ([]*types.Subscription, error)
	Update(dbc dbctx.Context, row *types.Subscription) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(dbc dbctx.Context, row *types.Subscription) (*types.Subscription, error) {
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

func (r *subscriptionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Subscription
	if err := t.WithContext(dbc.Ctx).Where("subscription_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *subscriptionRepo) ListByDistrict(dbc dbctx.Context, districtID uuid.UUID) ([]*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Subscription
	if districtID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("district_id = ?", districtID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepo) Update(dbc dbctx.Context, row *types.Subscription) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Model(row).Select("*").Omit("created_at").Updates(row).Error
}

func (r *subscriptionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("subscription_id = ?", id).Delete(&types.Subscription{}).Error
}
