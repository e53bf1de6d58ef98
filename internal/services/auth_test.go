package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/ctxutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
)

func newAuthFixture(t *testing.T) (*authService, AuthProvider) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	users := repos.NewUserRepo(db, log)
	provider := NewLocalAuthProvider(log, users)
	svc := NewAuthService(
		db,
		log,
		provider,
		users,
		repos.NewUserTokenRepo(db, log),
		repos.NewRegistrationRepo(db, log),
		observability.NewMetrics(),
		"access-secret",
		15*time.Minute,
		24*time.Hour,
	).(*authService)
	return svc, provider
}

func TestLoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	svc, provider := newAuthFixture(t)
	user, err := provider.CreateUser(dbctx.Context{Ctx: ctx}, NewAuthUser{
		Email: "Admin@Pelican.test", Password: "correct horse", FirstName: "Ada", LastName: "L", Role: invitation.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err = svc.Login(ctx, LoginInput{Email: "admin@pelican.test", Password: "wrong password"})
	requireStatus(t, err, http.StatusUnauthorized)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@pelican.test", Password: "correct horse"})
	requireStatus(t, err, http.StatusUnauthorized)

	pair, err := svc.Login(ctx, LoginInput{Email: " ADMIN@pelican.test", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID || rd.Role != invitation.RoleAdmin {
		t.Fatalf("unexpected request data: %+v", rd)
	}
	me, err := svc.Me(authed)
	if err != nil || me.User.Email != "admin@pelican.test" {
		t.Fatalf("Me: %+v %v", me, err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	requireStatus(t, err, http.StatusUnauthorized)

	if err := svc.Logout(authed); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = svc.Refresh(ctx, next.RefreshToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestRefreshExpired(t *testing.T) {
	ctx := context.Background()
	svc, provider := newAuthFixture(t)
	if _, err := provider.CreateUser(dbctx.Context{Ctx: ctx}, NewAuthUser{
		Email: "t@pelican.test", Password: "correct horse", Role: invitation.RoleTeacher,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	pair, err := svc.Login(ctx, LoginInput{Email: "t@pelican.test", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = svc.SetContextFromToken(ctx, pair.AccessToken)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestSetContextFromTokenRejectsForeignSignature(t *testing.T) {
	svc, _ := newAuthFixture(t)
	other := *svc
	other.jwtSecretKey = []byte("other")
	tok, err := other.generateAccessToken(&types.User{Role: invitation.RoleAdmin}, time.Now())
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}
	_, err = svc.SetContextFromToken(context.Background(), tok)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	_, provider := newAuthFixture(t)
	in := NewAuthUser{Email: "a@pelican.test", Password: "correct horse", Role: invitation.RoleStudent}
	if _, err := provider.CreateUser(dbctx.Context{Ctx: ctx}, in); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	in.Email = "A@PELICAN.TEST"
	_, err := provider.CreateUser(dbctx.Context{Ctx: ctx}, in)
	requireStatus(t, err, http.StatusConflict)
}
