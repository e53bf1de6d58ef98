package lessonplan

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

// LookupRepo serves the section-name and focus lookup tables.
type LookupRepo interface {
	ListSectionNames(dbc dbctx.Context) ([]*types.SectionName, error)
	GetSectionName(dbc dbctx.Context, id uuid.UUID) (*types.SectionName, error)
	EnsureSectionName(dbc dbctx.Context, name string) (*types.SectionName, error)

	ListFocuses(dbc dbctx.Context) ([]*types.Focus, error)
	GetFocus(dbc dbctx.Context, id uuid.UUID) (*types.Focus, error)
	EnsureFocus(dbc dbctx.Context, name string) (*types.Focus, error)
}

type lookupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLookupRepo(db *gorm.DB, baseLog *logger.Logger) LookupRepo {
	return &lookupRepo{db: db, log: baseLog.With("repo", "LookupRepo")}
}

func (r *lookupRepo) ListSectionNames(dbc dbctx.Context) ([]*types.SectionName, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SectionName
	if err := t.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lookupRepo) GetSectionName(dbc dbctx.Context, id uuid.UUID) (*types.SectionName, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.SectionName
	if err := t.WithContext(dbc.Ctx).Where("section_name_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// EnsureSectionName returns the row named name, creating it when missing.
func (r *lookupRepo) EnsureSectionName(dbc dbctx.Context, name string) (*types.SectionName, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.SectionName{}
	err := t.WithContext(dbc.Ctx).
		Where(types.SectionName{Name: strings.TrimSpace(name)}).
		Attrs(types.SectionName{ID: uuid.New()}).
		FirstOrCreate(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *lookupRepo) ListFocuses(dbc dbctx.Context) ([]*types.Focus, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Focus
	if err := t.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lookupRepo) GetFocus(dbc dbctx.Context, id uuid.UUID) (*types.Focus, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Focus
	if err := t.WithContext(dbc.Ctx).Where("focus_id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *lookupRepo) EnsureFocus(dbc dbctx.Context, name string) (*types.Focus, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.Focus{}
	err := t.WithContext(dbc.Ctx).
		Where(types.Focus{Name: strings.TrimSpace(name)}).
		Attrs(types.Focus{ID: uuid.New()}).
		FirstOrCreate(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}
