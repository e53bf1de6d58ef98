package app

import (
	"gorm.io/gorm"

	apphttp "github.com/PelicanED-online/pelicaned-backend/internal/http"
	httpH "github.com/PelicanED-online/pelicaned-backend/internal/http/handlers"
	httpMW "github.com/PelicanED-online/pelicaned-backend/internal/http/middleware"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Invitation   *httpH.InvitationHandler
	Registration *httpH.RegistrationHandler
	Curriculum   *httpH.CurriculumHandler
	Activity     *httpH.ActivityHandler
	LessonPlan   *httpH.LessonPlanHandler
	Media        *httpH.MediaHandler
	TableBuilder *httpH.TableBuilderHandler
	Org          *httpH.OrgHandler
	Subscription *httpH.SubscriptionHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	secure := cfg.Production()
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Auth:         httpH.NewAuthHandler(log, services.Auth),
		Invitation:   httpH.NewInvitationHandler(log, services.Invitation, secure),
		Registration: httpH.NewRegistrationHandler(log, services.Registration, secure),
		Curriculum:   httpH.NewCurriculumHandler(log, services.Curriculum),
		Activity:     httpH.NewActivityHandler(log, services.Activity),
		LessonPlan:   httpH.NewLessonPlanHandler(log, services.LessonPlan),
		Media:        httpH.NewMediaHandler(log, services.Media),
		TableBuilder: httpH.NewTableBuilderHandler(),
		Org:          httpH.NewOrgHandler(log, services.Org),
		Subscription: httpH.NewSubscriptionHandler(log, services.Subscription),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		TracingEnabled: cfg.OtelEnabled,
		AllowedOrigins: cfg.AllowedOrigins,

		AuthMiddleware: middleware.Auth,

		HealthHandler:       handlers.Health,
		AuthHandler:         handlers.Auth,
		InvitationHandler:   handlers.Invitation,
		RegistrationHandler: handlers.Registration,
		CurriculumHandler:   handlers.Curriculum,
		ActivityHandler:     handlers.Activity,
		LessonPlanHandler:   handlers.LessonPlan,
		MediaHandler:        handlers.Media,
		TableBuilderHandler: handlers.TableBuilder,
		OrgHandler:          handlers.Org,
		SubscriptionHandler: handlers.Subscription,
	})
}
