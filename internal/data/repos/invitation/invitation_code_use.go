package invitation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type InvitationCodeUseRepo interface {
	Record(dbc dbctx.Context, codeID, userID uuid.UUID, at time.Time) (*types.InvitationCodeUse, error)
	CountByCode(dbc dbctx.Context, codeID uuid.UUID) (int64, error)
	CountByCodes(dbc dbctx.Context, codeIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type invitationCodeUseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvitationCodeUseRepo(db *gorm.DB, baseLog *logger.Logger) InvitationCodeUseRepo {
	return &invitationCodeUseRepo{db: db, log: baseLog.With("repo", "InvitationCodeUseRepo")}
}

func (r *invitationCodeUseRepo) Record(dbc dbctx.Context, codeID, userID uuid.UUID, at time.Time) (*types.InvitationCodeUse, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.InvitationCodeUse{
		ID:               uuid.New(),
		InvitationCodeID: codeID,
		UserID:           userID,
		UsedAt:           at.UTC(),
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *invitationCodeUseRepo) CountByCode(dbc dbctx.Context, codeID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.InvitationCodeUse{}).
		Where("invitation_code_id = ?", codeID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *invitationCodeUseRepo) CountByCodes(dbc dbctx.Context, codeIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := make(map[uuid.UUID]int64, len(codeIDs))
	if len(codeIDs) == 0 {
		return out, nil
	}
	type countRow struct {
		InvitationCodeID uuid.UUID
		N                int64
	}
	var rows []countRow
	if err := t.WithContext(dbc.Ctx).
		Model(&types.InvitationCodeUse{}).
		Select("invitation_code_id, COUNT(*) AS n").
		Where("invitation_code_id IN ?", codeIDs).
		Group("invitation_code_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.InvitationCodeID] = row.N
	}
	return out, nil
}
