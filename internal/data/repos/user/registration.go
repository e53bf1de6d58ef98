package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

// RegistrationRepo writes the denormalized rows created when an invited user registers.
type RegistrationRepo interface {
	CreateUserInformation(dbc dbctx.Context, row *types.UserInformation) error
	GetUserInformation(dbc dbctx.Context, userID uuid.UUID) (*types.UserInformation, error)
	CreateSchoolRegistration(dbc dbctx.Context, row *types.SchoolRegistration) error
	CreateDistrictRegistration(dbc dbctx.Context, row *types.DistrictRegistration) error
	ListSchoolRegistrations(dbc dbctx.Context, userID uuid.UUID) ([]*types.SchoolRegistration, error)
	ListDistrictRegistrations(dbc dbctx.Context, userID uuid.UUID) ([]*types.DistrictRegistration, error)
}

type registrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRegistrationRepo(db *gorm.DB, baseLog *logger.Logger) RegistrationRepo {
	return &registrationRepo{db: db, log: baseLog.With("repo", "RegistrationRepo")}
}

func (r *registrationRepo) CreateUserInformation(dbc dbctx.Context, row *types.UserInformation) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *registrationRepo) GetUserInformation(dbc dbctx.Context, userID uuid.UUID) (*types.UserInformation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.UserInformation
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *registrationRepo) CreateSchoolRegistration(dbc dbctx.Context, row *types.SchoolRegistration) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *registrationRepo) CreateDistrictRegistration(dbc dbctx.Context, row *types.DistrictRegistration) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *registrationRepo) ListSchoolRegistrations(dbc dbctx.Context, userID uuid.UUID) ([]*types.SchoolRegistration, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SchoolRegistration
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *registrationRepo) ListDistrictRegistrations(dbc dbctx.Context, userID uuid.UUID) ([]*types.DistrictRegistration, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.DistrictRegistration
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
