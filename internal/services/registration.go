package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/clients/redis"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type RegisterInput struct {
	Email     string     `json:"email" validate:"required,email,max=254"`
	Password  string     `json:"password" validate:"required,min=8,max=72"`
	FirstName string     `json:"first_name" validate:"required,max=100"`
	LastName  string     `json:"last_name" validate:"required,max=100"`
	SchoolID  *uuid.UUID `json:"school_id"`
}

type RegisterResult struct {
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
	SchoolID   *uuid.UUID `json:"school_id,omitempty"`
}

type RegistrationService interface {
	Register(ctx context.Context, token string, in RegisterInput) (*RegisterResult, error)
}

type registrationService struct {
	db            *gorm.DB
	log           *logger.Logger
	invitations   InvitationService
	provider      AuthProvider
	ledger        redis.TokenLedger
	districts     repos.DistrictRepo
	schools       repos.SchoolRepo
	registrations repos.RegistrationRepo
	uses          repos.InvitationCodeUseRepo
	metrics       *observability.Metrics
	now           func() time.Time
}

func NewRegistrationService(
	db *gorm.DB,
	log *logger.Logger,
	invitations InvitationService,
	provider AuthProvider,
	ledger redis.TokenLedger,
	districts repos.DistrictRepo,
	schools repos.SchoolRepo,
	registrations repos.RegistrationRepo,
	uses repos.InvitationCodeUseRepo,
	metrics *observability.Metrics,
) RegistrationService {
	return &registrationService{
		db:            db,
		log:           log.With("service", "RegistrationService"),
		invitations:   invitations,
		provider:      provider,
		ledger:        ledger,
		districts:     districts,
		schools:       schools,
		registrations: registrations,
		uses:          uses,
		metrics:       metrics,
		now:           time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, token string, in RegisterInput) (*RegisterResult, error) {
	claims, err := s.invitations.ParseToken(token)
	if err != nil {
		s.metrics.IncRegistration("rejected")
		return nil, err
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct("invalid_registration", &in); err != nil {
		s.metrics.IncRegistration("rejected")
		return nil, err
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	claimed, err := s.ledger.MarkConsumed(ctx, claims.ID, ttl)
	if err != nil {
		return nil, fmt.Errorf("claim invitation token: %w", err)
	}
	if !claimed {
		s.metrics.IncRegistration("rejected")
		return nil, apierr.Unauthorized("invalid_invitation_token", "invitation token has already been used")
	}

	res, err := s.register(ctx, claims, in)
	if err != nil {
		if rerr := s.ledger.Release(context.WithoutCancel(ctx), claims.ID); rerr != nil {
			s.log.Warn("failed to release invitation token", "jti", claims.ID, "error", rerr)
		}
		if _, ok := apierr.As(err); ok {
			s.metrics.IncRegistration("rejected")
		} else {
			s.metrics.IncRegistration("error")
		}
		return nil, err
	}

	s.recordUse(ctx, claims.InvitationCodeID, res.UserID)

	s.metrics.IncRegistration("ok")
	s.log.Info("user registered", "user_id", res.UserID, "role", res.Role, "invitation_code_id", claims.InvitationCodeID)
	return res, nil
}

func (s *registrationService) register(ctx context.Context, claims *InvitationClaims, in RegisterInput) (*RegisterResult, error) {
	res := &RegisterResult{Email: in.Email, Role: claims.Role, DistrictID: claims.DistrictID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		check, err := s.invitations.CheckCode(dbc, claims.InvitationCodeID)
		if err != nil {
			return err
		}
		if !check.Valid {
			return apierr.Conflict("invitation_code_unavailable", check.Message)
		}

		schoolID := claims.SchoolID
		if schoolID == nil {
			schoolID = in.SchoolID
		}
		if invitation.RequiresSchool(claims.Role) && schoolID == nil {
			return apierr.BadRequest("school_required", "a school must be selected for this invitation")
		}
		if schoolID != nil {
			school, err := s.schools.GetByID(dbc, *schoolID)
			if err != nil {
				return fmt.Errorf("get school: %w", err)
			}
			if school == nil {
				return apierr.BadRequest("invalid_school", "school not found")
			}
			if res.DistrictID != nil && school.DistrictID != *res.DistrictID {
				return apierr.BadRequest("invalid_school", "school is not part of the invitation's district")
			}
			if res.DistrictID == nil {
				d := school.DistrictID
				res.DistrictID = &d
			}
			res.SchoolID = schoolID
		}

		if res.DistrictID != nil {
			if err := s.checkEmailDomain(dbc, *res.DistrictID, in.Email); err != nil {
				return err
			}
		}

		u, err := s.provider.CreateUser(dbc, NewAuthUser{
			Email:     in.Email,
			Password:  in.Password,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Role:      claims.Role,
		})
		if err != nil {
			return err
		}
		res.UserID = u.ID

		if err := s.registrations.CreateUserInformation(dbc, &types.UserInformation{
			ID:         uuid.New(),
			UserID:     u.ID,
			Email:      u.Email,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Role:       claims.Role,
			DistrictID: res.DistrictID,
			SchoolID:   res.SchoolID,
		}); err != nil {
			return fmt.Errorf("create user information: %w", err)
		}
		if res.SchoolID != nil {
			if err := s.registrations.CreateSchoolRegistration(dbc, &types.SchoolRegistration{
				ID:             uuid.New(),
				UserID:         u.ID,
				SchoolID:       *res.SchoolID,
				AcademicYearID: claims.AcademicYearID,
				Role:           claims.Role,
			}); err != nil {
				return fmt.Errorf("create school registration: %w", err)
			}
		}
		if res.DistrictID != nil {
			if err := s.registrations.CreateDistrictRegistration(dbc, &types.DistrictRegistration{
				ID:             uuid.New(),
				UserID:         u.ID,
				DistrictID:     *res.DistrictID,
				AcademicYearID: claims.AcademicYearID,
				Role:           claims.Role,
			}); err != nil {
				return fmt.Errorf("create district registration: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// checkEmailDomain enforces the district allow-list. A district without configured domains accepts any email.
func (s *registrationService) checkEmailDomain(dbc dbctx.Context, districtID uuid.UUID, email string) error {
	rows, err := s.districts.ListDomains(dbc, districtID)
	if err != nil {
		return fmt.Errorf("list district domains: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	domain := EmailDomain(email)
	allowed := make([]string, 0, len(rows))
	for _, r := range rows {
		d := strings.ToLower(strings.TrimSpace(r.Domain))
		if d == domain {
			return nil
		}
		allowed = append(allowed, d)
	}
	sort.Strings(allowed)
	return apierr.BadRequest("email_domain_not_allowed", "Email domain must be one of: "+strings.Join(allowed, ", "))
}

// EmailDomain returns the lowercase part after the last "@", or "" when there is none.
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}

func (s *registrationService) recordUse(ctx context.Context, codeID, userID uuid.UUID) {
	if _, err := s.uses.Record(dbctx.Context{Ctx: ctx}, codeID, userID, s.now().UTC()); err != nil {
		s.metrics.IncInvitationUseRecordFailure()
		s.log.Warn("failed to record invitation code use", "invitation_code_id", codeID, "user_id", userID, "error", err)
	}
}
