package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	httpH "github.com/PelicanED-online/pelicaned-backend/internal/http/handlers"
	httpMW "github.com/PelicanED-online/pelicaned-backend/internal/http/middleware"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	AuthHandler         *httpH.AuthHandler
	InvitationHandler   *httpH.InvitationHandler
	RegistrationHandler *httpH.RegistrationHandler
	CurriculumHandler   *httpH.CurriculumHandler
	ActivityHandler     *httpH.ActivityHandler
	LessonPlanHandler   *httpH.LessonPlanHandler
	MediaHandler        *httpH.MediaHandler
	TableBuilderHandler *httpH.TableBuilderHandler
	OrgHandler          *httpH.OrgHandler
	SubscriptionHandler *httpH.SubscriptionHandler
}

var invitationAdminRoles = []string{
	invitation.RoleAdmin,
	invitation.RoleDistrict,
	invitation.RoleSchool,
	invitation.RoleTeacher,
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Invitation codes and registration (public, cookie bound)
		if cfg.InvitationHandler != nil {
			api.POST("/invitations/validate", cfg.InvitationHandler.Validate)
			api.GET("/invitations/schools", cfg.InvitationHandler.Schools)
		}
		if cfg.RegistrationHandler != nil {
			api.POST("/register", cfg.RegistrationHandler.Register)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}
	}

	invites := protected.Group("/invitation-codes")
	invites.Use(cfg.AuthMiddleware.RequireRole(invitationAdminRoles...))
	if cfg.InvitationHandler != nil {
		invites.GET("", cfg.InvitationHandler.ListCodes)
		invites.POST("", cfg.InvitationHandler.CreateCode)
		invites.DELETE("/:id", cfg.InvitationHandler.DeleteCode)
	}

	admin := protected.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireRole(invitation.RoleAdmin))
	{
		// Curriculum
		if h := cfg.CurriculumHandler; h != nil {
			admin.GET("/subjects", h.ListSubjects)
			admin.POST("/subjects", h.CreateSubject)
			admin.PUT("/subjects/order", h.ReorderSubjects)
			admin.GET("/subjects/:id", h.GetSubject)
			admin.PUT("/subjects/:id", h.UpdateSubject)
			admin.DELETE("/subjects/:id", h.DeleteSubject)
			admin.GET("/subjects/:id/units", h.ListUnits)
			admin.POST("/subjects/:id/units", h.CreateUnit)
			admin.PUT("/subjects/:id/units/order", h.ReorderUnits)

			admin.GET("/units/:id", h.GetUnit)
			admin.PUT("/units/:id", h.UpdateUnit)
			admin.DELETE("/units/:id", h.DeleteUnit)
			admin.GET("/units/:id/chapters", h.ListChapters)
			admin.POST("/units/:id/chapters", h.CreateChapter)
			admin.PUT("/units/:id/chapters/order", h.ReorderChapters)

			admin.GET("/chapters/:id", h.GetChapter)
			admin.PUT("/chapters/:id", h.UpdateChapter)
			admin.DELETE("/chapters/:id", h.DeleteChapter)
			admin.GET("/chapters/:id/lessons", h.ListLessons)
			admin.POST("/chapters/:id/lessons", h.CreateLesson)
			admin.PUT("/chapters/:id/lessons/order", h.ReorderLessons)

			admin.GET("/lessons/:id", h.GetLesson)
			admin.PUT("/lessons/:id", h.UpdateLesson)
			admin.DELETE("/lessons/:id", h.DeleteLesson)
		}

		// Activities
		if h := cfg.ActivityHandler; h != nil {
			admin.GET("/lessons/:id/activities", h.GetLessonActivities)
			admin.PUT("/lessons/:id/activities", h.SaveLessonActivities)
			admin.DELETE("/activities/:id", h.DeleteActivity)
			admin.POST("/activities/validate", h.ValidateDetail)
		}

		// Lesson plans and lookups
		if h := cfg.LessonPlanHandler; h != nil {
			admin.GET("/lessons/:id/plan", h.GetPlan)
			admin.PUT("/lessons/:id/plan", h.UpdatePlan)
			admin.POST("/lessons/:id/plan/sections", h.CreateSection)
			admin.PUT("/lessons/:id/plan/sections/order", h.ReorderSections)
			admin.PUT("/sections/:id", h.UpdateSection)
			admin.DELETE("/sections/:id", h.DeleteSection)
			admin.POST("/sections/:id/directions", h.CreateDirection)
			admin.PUT("/sections/:id/directions/order", h.ReorderDirections)
			admin.PUT("/directions/:id", h.UpdateDirection)
			admin.DELETE("/directions/:id", h.DeleteDirection)
			admin.GET("/section-names", h.ListSectionNames)
			admin.POST("/section-names", h.CreateSectionName)
			admin.GET("/focuses", h.ListFocuses)
			admin.POST("/focuses", h.CreateFocus)
		}

		// Media
		if h := cfg.MediaHandler; h != nil {
			admin.POST("/media", h.Upload)
			admin.GET("/media/url", h.SignedURL)
			admin.DELETE("/media", h.Delete)
		}

		// Graphic organizer table builder
		if h := cfg.TableBuilderHandler; h != nil {
			admin.GET("/graphic-organizers/templates", h.Templates)
			admin.POST("/graphic-organizers/build", h.Build)
		}

		// Organisation
		if h := cfg.OrgHandler; h != nil {
			admin.GET("/districts", h.ListDistricts)
			admin.POST("/districts", h.CreateDistrict)
			admin.GET("/districts/:id/domains", h.ListDomains)
			admin.POST("/districts/:id/domains", h.AddDomain)
			admin.DELETE("/districts/:id/domains/:domainId", h.RemoveDomain)
			admin.GET("/districts/:id/schools", h.ListSchools)
			admin.POST("/districts/:id/schools", h.CreateSchool)
			admin.GET("/academic-years", h.ListAcademicYears)
			admin.POST("/academic-years", h.CreateAcademicYear)
		}

		// Subscriptions
		if h := cfg.SubscriptionHandler; h != nil {
			admin.GET("/districts/:id/subscriptions", h.List)
			admin.POST("/districts/:id/subscriptions", h.Create)
			admin.GET("/subscriptions/:id", h.Get)
			admin.PUT("/subscriptions/:id", h.Update)
			admin.DELETE("/subscriptions/:id", h.Delete)
		}
	}

	return r
}
