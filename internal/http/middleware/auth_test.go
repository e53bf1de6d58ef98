package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/ctxutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type fakeAuth struct {
	services.AuthService
	tokens map[string]*ctxutil.RequestData
}

func (f *fakeAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	rd, ok := f.tokens[token]
	if !ok {
		return ctx, apierr.Unauthorized("invalid_token", "invalid token")
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (f *fakeAuth) AccessTTL() time.Duration { return time.Minute }

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), &fakeAuth{tokens: map[string]*ctxutil.RequestData{
		"admin-token":   {UserID: uuid.New(), Role: "admin"},
		"student-token": {UserID: uuid.New(), Role: "student"},
	}})

	r := gin.New()
	authed := r.Group("/", am.RequireAuth())
	authed.GET("/me", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Role)
	})
	authed.GET("/admin", am.RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireAuthAndRole(t *testing.T) {
	r := newAuthRouter(t)
	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/me", "Bearer student-token", http.StatusOK},
		{"lowercase scheme", "/me", "bearer admin-token", http.StatusOK},
		{"wrong role", "/admin", "Bearer student-token", http.StatusForbidden},
		{"right role", "/admin", "Bearer admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.RequestID(c.Request.Context()))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"echoes a well-formed id", "req-42.a_b", true},
		{"generates when missing", "", false},
		{"replaces ids with unsafe characters", "bad id\nforged=1", false},
		{"replaces overlong ids", strings.Repeat("a", 65), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.incoming != "" {
				req.Header.Set(HeaderRequestID, tc.incoming)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			if tc.keep && got != tc.incoming {
				t.Fatalf("request id = %q, want %q", got, tc.incoming)
			}
			if !tc.keep {
				if _, err := uuid.Parse(got); err != nil {
					t.Fatalf("expected a generated uuid, got %q", got)
				}
			}
			if rec.Body.String() != got {
				t.Fatalf("context request id = %q, header %q", rec.Body.String(), got)
			}
			if tid := rec.Header().Get(HeaderTraceID); len(tid) != 32 {
				t.Fatalf("trace id %q is not 32 hex chars", tid)
			}
		})
	}
}
