package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

const dateLayout = "2006-01-02"

type DistrictInput struct {
	Name    string   `json:"name" validate:"required,max=255"`
	Domains []string `json:"domains" validate:"dive,fqdn"`
}

type SchoolInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

type AcademicYearInput struct {
	DistrictID *uuid.UUID `json:"district_id"`
	Name       string     `json:"name" validate:"required,max=100"`
	StartDate  string     `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate string     `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

type OrgService interface {
	ListDistricts(ctx context.Context) ([]*types.District, error)
	CreateDistrict(ctx context.Context, in DistrictInput) (*types.District, error)
	ListDomains(ctx context.Context, districtID uuid.UUID) ([]*types.DistrictEmailDomain, error)
	AddDomain(ctx context.Context, districtID uuid.UUID, domain string) (*types.DistrictEmailDomain, error)
	RemoveDomain(ctx context.Context, districtID, domainID uuid.UUID) error

	ListSchools(ctx context.Context, districtID uuid.UUID) ([]*types.School, error)
	CreateSchool(ctx context.Context, districtID uuid.UUID, in SchoolInput) (*types.School, error)

	ListAcademicYears(ctx context.Context, districtID *uuid.UUID) ([]*types.AcademicYear, error)
	CreateAcademicYear(ctx context.Context, in AcademicYearInput) (*types.AcademicYear, error)
}

type orgService struct {
	db            *gorm.DB
	log           *logger.Logger
	districts     repos.DistrictRepo
	schools       repos.SchoolRepo
	academicYears repos.AcademicYearRepo
}

func NewOrgService(
	db *gorm.DB,
	log *logger.Logger,
	districts repos.DistrictRepo,
	schools repos.SchoolRepo,
	academicYears repos.AcademicYearRepo,
) OrgService {
	return &orgService{
		db:            db,
		log:           log.With("service", "OrgService"),
		districts:     districts,
		schools:       schools,
		academicYears: academicYears,
	}
}

// NormalizeDomain lowercases d and strips whitespace and a leading "@".
func NormalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "@")
}

func (s *orgService) ListDistricts(ctx context.Context) ([]*types.District, error) {
	return s.districts.List(dbctx.Context{Ctx: ctx})
}

func (s *orgService) CreateDistrict(ctx context.Context, in DistrictInput) (*types.District, error) {
	for i := range in.Domains {
		in.Domains[i] = NormalizeDomain(in.Domains[i])
	}
	if err := validateStruct("invalid_district", &in); err != nil {
		return nil, err
	}
	var out *types.District
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		d, err := s.districts.Create(dbc, &types.District{ID: uuid.New(), Name: strings.TrimSpace(in.Name)})
		if err != nil {
			return fmt.Errorf("create district: %w", err)
		}
		seen := map[string]bool{}
		for _, domain := range in.Domains {
			if seen[domain] {
				continue
			}
			seen[domain] = true
			if _, err := s.districts.AddDomain(dbc, d.ID, domain); err != nil {
				return fmt.Errorf("add district domain: %w", err)
			}
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("district created", "district_id", out.ID, "domains", len(in.Domains))
	return out, nil
}

func (s *orgService) requireDistrict(dbc dbctx.Context, id uuid.UUID) error {
	d, err := s.districts.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("get district: %w", err)
	}
	if d == nil {
		return notFound("district")
	}
	return nil
}

func (s *orgService) ListDomains(ctx context.Context, districtID uuid.UUID) ([]*types.DistrictEmailDomain, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireDistrict(dbc, districtID); err != nil {
		return nil, err
	}
	return s.districts.ListDomains(dbc, districtID)
}

func (s *orgService) AddDomain(ctx context.Context, districtID uuid.UUID, domain string) (*types.DistrictEmailDomain, error) {
	domain = NormalizeDomain(domain)
	if err := validate.Var(domain, "required,fqdn"); err != nil {
		return nil, apierr.BadRequest("invalid_domain", fmt.Sprintf("%q is not a valid domain", domain))
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireDistrict(dbc, districtID); err != nil {
		return nil, err
	}
	existing, err := s.districts.ListDomains(dbc, districtID)
	if err != nil {
		return nil, fmt.Errorf("list district domains: %w", err)
	}
	for _, d := range existing {
		if d.Domain == domain {
			return nil, apierr.Conflict("domain_exists", "domain is already on the allow-list")
		}
	}
	return s.districts.AddDomain(dbc, districtID, domain)
}

func (s *orgService) RemoveDomain(ctx context.Context, districtID, domainID uuid.UUID) error {
	return s.districts.RemoveDomain(dbctx.Context{Ctx: ctx}, districtID, domainID)
}

func (s *orgService) ListSchools(ctx context.Context, districtID uuid.UUID) ([]*types.School, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireDistrict(dbc, districtID); err != nil {
		return nil, err
	}
	return s.schools.ListByDistrict(dbc, districtID)
}

func (s *orgService) CreateSchool(ctx context.Context, districtID uuid.UUID, in SchoolInput) (*types.School, error) {
	if err := validateStruct("invalid_school", &in); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireDistrict(dbc, districtID); err != nil {
		return nil, err
	}
	return s.schools.Create(dbc, &types.School{ID: uuid.New(), DistrictID: districtID, Name: strings.TrimSpace(in.Name)})
}

func (s *orgService) ListAcademicYears(ctx context.Context, districtID *uuid.UUID) ([]*types.AcademicYear, error) {
	return s.academicYears.List(dbctx.Context{Ctx: ctx}, districtID)
}

func (s *orgService) CreateAcademicYear(ctx context.Context, in AcademicYearInput) (*types.AcademicYear, error) {
	if err := validateStruct("invalid_academic_year", &in); err != nil {
		return nil, err
	}
	expiry, _ := time.Parse(dateLayout, in.ExpiryDate)
	row := &types.AcademicYear{
		ID:         uuid.New(),
		DistrictID: in.DistrictID,
		Name:       strings.TrimSpace(in.Name),
		ExpiryDate: datatypes.Date(expiry),
	}
	if in.StartDate != "" {
		start, _ := time.Parse(dateLayout, in.StartDate)
		if !start.Before(expiry) {
			return nil, apierr.BadRequest("invalid_academic_year", "start_date must be before expiry_date")
		}
		row.StartDate = datatypes.Date(start)
	}
	dbc := dbctx.Context{Ctx: ctx}
	if in.DistrictID != nil {
		if err := s.requireDistrict(dbc, *in.DistrictID); err != nil {
			return nil, err
		}
	}
	return s.academicYears.Create(dbc, row)
}
