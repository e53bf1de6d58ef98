package invitation

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type ListFilter struct {
	DistrictID *uuid.UUID
	CreatedBy  *uuid.UUID
}

type InvitationCodeRepo interface {
	Create(dbc dbctx.Context, row *types.InvitationCode) (*types.InvitationCode, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.InvitationCode, error)
	// GetByCode is an exact match; callers normalize first.
	GetByCode(dbc dbctx.Context, code string) (*types.InvitationCode, error)
	CodeExists(dbc dbctx.Context, code string) (bool, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.InvitationCode, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type invitationCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvitationCodeRepo(db *gorm.DB, baseLog *logger.Logger) InvitationCodeRepo {
	return &invitationCodeRepo{db: db, log: baseLog.With("repo", "InvitationCodeRepo")}
}

func (r *invitationCodeRepo) Create(dbc dbctx.Context, row *types.InvitationCode) (*types.InvitationCode, error) {
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

func (r *invitationCodeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.InvitationCode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.InvitationCode
	if err := t.WithContext(dbc.Ctx).Where("invitation_code_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *invitationCodeRepo) GetByCode(dbc dbctx.Context, code string) (*types.InvitationCode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if code == "" {
		return nil, nil
	}
	var rows []*types.InvitationCode
	if err := t.WithContext(dbc.Ctx).Where("invitation_code = ?", code).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *invitationCodeRepo) CodeExists(dbc dbctx.Context, code string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.InvitationCode{}).Where("invitation_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *invitationCodeRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.InvitationCode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx)
	if filter.DistrictID != nil {
		q = q.Where("district_id = ?", *filter.DistrictID)
	}
	if filter.CreatedBy != nil {
		q = q.Where("created_by = ?", *filter.CreatedBy)
	}
	var out []*types.InvitationCode
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *invitationCodeRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("invitation_code_id = ?", id).Delete(&types.InvitationCode{}).Error
}
