package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/PelicanED-online/pelicaned-backend/internal/http/handlers"
	httpMW "github.com/PelicanED-online/pelicaned-backend/internal/http/middleware"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/ctxutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type staticTokens struct {
	services.AuthService
	roles map[string]string
}

func (s *staticTokens) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	role, ok := s.roles[token]
	if !ok {
		return ctx, apierr.Unauthorized("invalid_token", "invalid token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, UserID: uuid.New(), Role: role}), nil
}

func newTestRouter(t *testing.T, metrics *observability.Metrics) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	return NewRouter(RouterConfig{
		Log:     log,
		Metrics: metrics,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, &staticTokens{roles: map[string]string{
			"admin":   "admin",
			"teacher": "teacher",
			"student": "student",
		}}),
		HealthHandler:       httpH.NewHealthHandler(nil),
		TableBuilderHandler: httpH.NewTableBuilderHandler(),
	})
}

func TestRouterRoleGates(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"health is public", "/healthcheck", "", http.StatusOK},
		{"authoring needs a token", "/api/graphic-organizers/templates", "", http.StatusUnauthorized},
		{"authoring rejects unknown token", "/api/graphic-organizers/templates", "nope", http.StatusUnauthorized},
		{"authoring rejects teacher", "/api/graphic-organizers/templates", "teacher", http.StatusForbidden},
		{"authoring rejects student", "/api/graphic-organizers/templates", "student", http.StatusForbidden},
		{"authoring allows admin", "/api/graphic-organizers/templates", "admin", http.StatusOK},
		{"metrics off", "/metrics", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestRouterServesMetrics(t *testing.T) {
	r := newTestRouter(t, observability.NewMetrics())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics body missing http_requests_total:\n%s", rec.Body.String())
	}
}
