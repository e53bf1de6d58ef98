package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/org"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type SubscriptionInput struct {
	SchoolID       *uuid.UUID `json:"school_id"`
	SubjectID      uuid.UUID  `json:"subject_id" validate:"required"`
	AcademicYearID uuid.UUID  `json:"academic_year_id" validate:"required"`
	Seats          *int       `json:"seats" validate:"omitempty,min=1"`
	Cancelled      bool       `json:"cancelled"`
}

type SubscriptionService interface {
	List(ctx context.Context, districtID uuid.UUID) ([]*types.Subscription, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Subscription, error)
	Create(ctx context.Context, districtID uuid.UUID, in SubscriptionInput) (*types.Subscription, error)
	Update(ctx context.Context, id uuid.UUID, in SubscriptionInput) (*types.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subscriptionService struct {
	db            *gorm.DB
	log           *logger.Logger
	subscriptions repos.SubscriptionRepo
	districts     repos.DistrictRepo
	schools       repos.SchoolRepo
	subjects      repos.SubjectRepo
	academicYears repos.AcademicYearRepo
	now           func() time.Time
}

func NewSubscriptionService(
	db *gorm.DB,
	log *logger.Logger,
	subscriptions repos.SubscriptionRepo,
	districts repos.DistrictRepo,
	schools repos.SchoolRepo,
	subjects repos.SubjectRepo,
	academicYears repos.AcademicYearRepo,
) SubscriptionService {
	return &subscriptionService{
		db:            db,
		log:           log.With("service", "SubscriptionService"),
		subscriptions: subscriptions,
		districts:     districts,
		schools:       schools,
		subjects:      subjects,
		academicYears: academicYears,
		now:           time.Now,
	}
}

// SubscriptionStatus is cancelled when flagged, otherwise active through the academic year's expiry date.
func SubscriptionStatus(sub *types.Subscription, ay *types.AcademicYear, today time.Time) string {
	switch {
	case sub.Cancelled:
		return org.SubscriptionStatusCancelled
	case ay == nil || ay.ExpiredOn(today):
		return org.SubscriptionStatusExpired
	default:
		return org.SubscriptionStatusActive
	}
}

func (s *subscriptionService) withStatus(dbc dbctx.Context, subs ...*types.Subscription) error {
	ids := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.AcademicYearID)
	}
	years, err := s.academicYears.GetByIDs(dbc, ids)
	if err != nil {
		return fmt.Errorf("get academic years: %w", err)
	}
	byID := make(map[uuid.UUID]*types.AcademicYear, len(years))
	for _, y := range years {
		byID[y.ID] = y
	}
	today := s.now().UTC()
	for _, sub := range subs {
		sub.Status = SubscriptionStatus(sub, byID[sub.AcademicYearID], today)
	}
	return nil
}

func (s *subscriptionService) List(ctx context.Context, districtID uuid.UUID) ([]*types.Subscription, error) {
	dbc := dbctx.Context{Ctx: ctx}
	subs, err := s.subscriptions.ListByDistrict(dbc, districtID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if err := s.withStatus(dbc, subs...); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *subscriptionService) Get(ctx context.Context, id uuid.UUID) (*types.Subscription, error) {
	dbc := dbctx.Context{Ctx: ctx}
	sub, err := s.subscriptions.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return nil, notFound("subscription")
	}
	if err := s.withStatus(dbc, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) checkRefs(dbc dbctx.Context, districtID uuid.UUID, in SubscriptionInput) error {
	d, err := s.districts.GetByID(dbc, districtID)
	if err != nil {
		return fmt.Errorf("get district: %w", err)
	}
	if d == nil {
		return notFound("district")
	}
	subject, err := s.subjects.GetByID(dbc, in.SubjectID)
	if err != nil {
		return fmt.Errorf("get subject: %w", err)
	}
	if subject == nil {
		return apierr.BadRequest("invalid_subscription", "subject not found")
	}
	ay, err := s.academicYears.GetByID(dbc, in.AcademicYearID)
	if err != nil {
		return fmt.Errorf("get academic year: %w", err)
	}
	if ay == nil || (ay.DistrictID != nil && *ay.DistrictID != districtID) {
		return apierr.BadRequest("invalid_subscription", "academic year not found for this district")
	}
	if in.SchoolID != nil {
		school, err := s.schools.GetByID(dbc, *in.SchoolID)
		if err != nil {
			return fmt.Errorf("get school: %w", err)
		}
		if school == nil || school.DistrictID != districtID {
			return apierr.BadRequest("invalid_subscription", "school does not belong to the district")
		}
	}
	return nil
}

func (s *subscriptionService) Create(ctx context.Context, districtID uuid.UUID, in SubscriptionInput) (*types.Subscription, error) {
	if err := validateStruct("invalid_subscription", &in); err != nil {
		return nil, err
	}
	var out *types.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.checkRefs(dbc, districtID, in); err != nil {
			return err
		}
		sub, err := s.subscriptions.Create(dbc, &types.Subscription{
			ID:             uuid.New(),
			DistrictID:     districtID,
			SchoolID:       in.SchoolID,
			SubjectID:      in.SubjectID,
			AcademicYearID: in.AcademicYearID,
			Seats:          in.Seats,
			Cancelled:      in.Cancelled,
		})
		if err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		out = sub
		return s.withStatus(dbc, sub)
	})
	return out, err
}

func (s *subscriptionService) Update(ctx context.Context, id uuid.UUID, in SubscriptionInput) (*types.Subscription, error) {
	if err := validateStruct("invalid_subscription", &in); err != nil {
		return nil, err
	}
	var out *types.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		sub, err := s.subscriptions.GetByID(dbc, id)
		if err != nil {
			return fmt.Errorf("get subscription: %w", err)
		}
		if sub == nil {
			return notFound("subscription")
		}
		if err := s.checkRefs(dbc, sub.DistrictID, in); err != nil {
			return err
		}
		sub.SchoolID = in.SchoolID
		sub.SubjectID = in.SubjectID
		sub.AcademicYearID = in.AcademicYearID
		sub.Seats = in.Seats
		sub.Cancelled = in.Cancelled
		if err := s.subscriptions.Update(dbc, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		out = sub
		return s.withStatus(dbc, sub)
	})
	return out, err
}

func (s *subscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	sub, err := s.subscriptions.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if sub == nil {
		return notFound("subscription")
	}
	return s.subscriptions.Delete(dbc, id)
}
