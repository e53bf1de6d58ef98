package app

import (
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type Services struct {
	AuthProvider services.AuthProvider
	Auth         services.AuthService
	Invitation   services.InvitationService
	Registration services.RegistrationService
	Activity     services.ActivityService
	LessonPlan   services.LessonPlanService
	Curriculum   services.CurriculumService
	Media        services.MediaService
	Org          services.OrgService
	Subscription services.SubscriptionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	provider := services.NewLocalAuthProvider(log, r.User)
	auth := services.NewAuthService(
		db,
		log,
		provider,
		r.User,
		r.UserToken,
		r.Registration,
		metrics,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	invitations := services.NewInvitationService(
		db,
		log,
		r.InvitationCode,
		r.InvitationCodeUse,
		r.AcademicYear,
		r.District,
		r.School,
		r.Registration,
		metrics,
		cfg.InvitationSecret,
		cfg.InvitationTokenTTL,
	)
	registrations := services.NewRegistrationService(
		db,
		log,
		invitations,
		provider,
		c.Ledger,
		r.District,
		r.School,
		r.Registration,
		r.InvitationCodeUse,
		metrics,
	)

	activities := services.NewActivityService(db, log, r.Lesson, r.Activity, r.Contents, r.Direction, c.Media, metrics)
	plans := services.NewLessonPlanService(db, log, r.Lesson, r.Activity, r.LessonPlan, r.Section, r.Direction, r.Lookup, c.Media)
	curriculum := services.NewCurriculumService(db, log, r.Subject, r.Unit, r.Chapter, r.Lesson, activities, plans)

	return Services{
		AuthProvider: provider,
		Auth:         auth,
		Invitation:   invitations,
		Registration: registrations,
		Activity:     activities,
		LessonPlan:   plans,
		Curriculum:   curriculum,
		Media:        services.NewMediaService(log, c.Media, cfg.MediaMaxWidth, metrics),
		Org:          services.NewOrgService(db, log, r.District, r.School, r.AcademicYear),
		Subscription: services.NewSubscriptionService(db, log, r.Subscription, r.District, r.School, r.Subject, r.AcademicYear),
	}
}
