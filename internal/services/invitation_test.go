package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/testutil"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/observability"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/ctxutil"
)

var fixedNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func newInvitationService(t *testing.T, db *gorm.DB) *invitationService {
	t.Helper()
	log := testutil.Logger(t)
	svc := NewInvitationService(
		db,
		log,
		repos.NewInvitationCodeRepo(db, log),
		repos.NewInvitationCodeUseRepo(db, log),
		repos.NewAcademicYearRepo(db, log),
		repos.NewDistrictRepo(db, log),
		repos.NewSchoolRepo(db, log),
		repos.NewRegistrationRepo(db, log),
		observability.NewMetrics(),
		"invitation-secret",
		0,
	).(*invitationService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func asUser(ctx context.Context, id uuid.UUID, role string) context.Context {
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: id, Role: role})
}

func TestInvitationValidate(t *testing.T) {
	ctx := context.Background()
	tomorrow := fixedNow.AddDate(0, 0, 1)
	yesterday := fixedNow.AddDate(0, 0, -1)

	cases := []struct {
		name    string
		input   string
		expiry  time.Time
		limit   *int
		used    int
		valid   bool
		message string
	}{
		{"lowercase with spaces under limit", " ab12cd ", tomorrow, testutil.PtrInt(5), 4, true, MsgCodeValid},
		{"limit reached", "AB12CD", tomorrow, testutil.PtrInt(5), 5, false, MsgLimitReached},
		{"expired", "AB12CD", yesterday, testutil.PtrInt(5), 0, false, MsgCodeExpired},
		{"expired wins over limit", "AB12CD", yesterday, testutil.PtrInt(5), 5, false, MsgCodeExpired},
		{"expires today", "AB12CD", fixedNow, nil, 0, true, MsgCodeValid},
		{"unlimited", "AB12CD", tomorrow, nil, 250, true, MsgCodeValid},
		{"unknown code", "ZZ99ZZ", tomorrow, nil, 0, false, MsgInvalidCode},
		{"empty code", "   ", tomorrow, nil, 0, false, MsgInvalidCode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := testutil.DB(t)
			district := testutil.SeedDistrict(t, ctx, db, "North")
			ay := testutil.SeedAcademicYear(t, ctx, db, &district.ID, tc.expiry)
			code := testutil.SeedInvitationCode(t, ctx, db, "AB12CD", invitation.RoleStudent, ay.ID, &district.ID, tc.limit)
			testutil.SeedInvitationUses(t, ctx, db, code.ID, tc.used)

			svc := newInvitationService(t, db)
			res, tok, err := svc.Validate(ctx, tc.input)
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if res.Valid != tc.valid || res.Message != tc.message {
				t.Fatalf("result = %+v, want valid=%v message=%q", res, tc.valid, tc.message)
			}
			if !tc.valid {
				if tok != nil {
					t.Fatalf("expected no token for a rejected code")
				}
				return
			}
			if tok == nil || tok.Value == "" {
				t.Fatalf("expected a token")
			}
			claims, err := svc.ParseToken(tok.Value)
			if err != nil {
				t.Fatalf("ParseToken: %v", err)
			}
			if claims.InvitationCodeID != code.ID || claims.Role != invitation.RoleStudent || claims.Code != "AB12CD" {
				t.Fatalf("unexpected claims: %+v", claims)
			}
			if claims.DistrictID == nil || *claims.DistrictID != district.ID || claims.AcademicYearID != ay.ID {
				t.Fatalf("scope missing from claims: %+v", claims)
			}
			if got := tok.ExpiresAt.Sub(fixedNow); got != DefaultInvitationTokenTTL {
				t.Fatalf("token ttl = %v", got)
			}
		})
	}
}

func TestInvitationValidateMissingAcademicYear(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	testutil.SeedInvitationCode(t, ctx, db, "AB12CD", invitation.RoleStudent, uuid.New(), nil, nil)

	svc := newInvitationService(t, db)
	if _, _, err := svc.Validate(ctx, "AB12CD"); err == nil {
		t.Fatalf("expected an error for a code without an academic year")
	}
}

func TestInvitationParseTokenRejects(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	ay := testutil.SeedAcademicYear(t, ctx, db, nil, fixedNow.AddDate(0, 1, 0))
	testutil.SeedInvitationCode(t, ctx, db, "AB12CD", invitation.RoleStudent, ay.ID, nil, nil)

	svc := newInvitationService(t, db)
	_, tok, err := svc.Validate(ctx, "AB12CD")
	if err != nil || tok == nil {
		t.Fatalf("Validate: %v", err)
	}

	other := newInvitationService(t, db)
	other.secret = []byte("different")
	for name, fn := range map[string]func() error{
		"empty":        func() error { _, err := svc.ParseToken(""); return err },
		"garbage":      func() error { _, err := svc.ParseToken("not-a-token"); return err },
		"wrong secret": func() error { _, err := other.ParseToken(tok.Value); return err },
		"after expiry": func() error {
			svc.now = func() time.Time { return fixedNow.Add(DefaultInvitationTokenTTL + time.Minute) }
			defer func() { svc.now = func() time.Time { return fixedNow } }()
			_, err := svc.ParseToken(tok.Value)
			return err
		},
	} {
		err := fn()
		ae, ok := apierr.As(err)
		if !ok || ae.Status != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %v", name, err)
		}
	}
}

func TestInvitationCreateListDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	district := testutil.SeedDistrict(t, ctx, db, "North")
	school := testutil.SeedSchool(t, ctx, db, district.ID, "Central High")
	ay := testutil.SeedAcademicYear(t, ctx, db, &district.ID, fixedNow.AddDate(0, 6, 0))
	admin := testutil.SeedUser(t, ctx, db, "admin@pelican.test", invitation.RoleAdmin)

	svc := newInvitationService(t, db)
	actx := asUser(ctx, admin.ID, invitation.RoleAdmin)

	created, err := svc.Create(actx, CreateInvitationInput{
		Role:           "Teacher",
		SchoolID:       &school.ID,
		AcademicYearID: ay.ID,
		NumberOfUses:   testutil.PtrInt(2),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.Code) != invitation.CodeLength || created.Role != invitation.RoleTeacher {
		t.Fatalf("unexpected code: %+v", created.InvitationCode)
	}
	if created.DistrictID == nil || *created.DistrictID != district.ID {
		t.Fatalf("district not derived from school: %+v", created.InvitationCode)
	}
	if created.Status.Label != invitation.StatusAvailable {
		t.Fatalf("status = %+v", created.Status)
	}

	testutil.SeedInvitationUses(t, ctx, db, created.ID, 2)
	list, err := svc.List(actx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Status.Label != invitation.StatusUnavailable || list[0].Status.UsageCount != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}

	err = svc.Delete(actx, created.ID)
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusConflict {
		t.Fatalf("expected 409 deleting a used code, got %v", err)
	}
}

func TestInvitationCreateRejectsMismatchedSchool(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	north := testutil.SeedDistrict(t, ctx, db, "North")
	south := testutil.SeedDistrict(t, ctx, db, "South")
	school := testutil.SeedSchool(t, ctx, db, south.ID, "South High")
	ay := testutil.SeedAcademicYear(t, ctx, db, nil, fixedNow.AddDate(0, 6, 0))
	admin := testutil.SeedUser(t, ctx, db, "admin@pelican.test", invitation.RoleAdmin)

	svc := newInvitationService(t, db)
	_, err := svc.Create(asUser(ctx, admin.ID, invitation.RoleAdmin), CreateInvitationInput{
		Role:           invitation.RoleTeacher,
		DistrictID:     &north.ID,
		SchoolID:       &school.ID,
		AcademicYearID: ay.ID,
	})
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestInvitationCreateScopedToCreator(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	district := testutil.SeedDistrict(t, ctx, db, "North")
	school := testutil.SeedSchool(t, ctx, db, district.ID, "Central High")
	ay := testutil.SeedAcademicYear(t, ctx, db, &district.ID, fixedNow.AddDate(0, 6, 0))
	teacher := testutil.SeedUser(t, ctx, db, "teacher@north.org", invitation.RoleTeacher)
	testutil.SeedUserInformation(t, ctx, db, teacher, &district.ID, &school.ID)

	svc := newInvitationService(t, db)
	tctx := asUser(ctx, teacher.ID, invitation.RoleTeacher)

	if _, err := svc.Create(tctx, CreateInvitationInput{Role: invitation.RoleDistrict, AcademicYearID: ay.ID}); err == nil {
		t.Fatalf("teacher must not grant the district role")
	} else if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}

	created, err := svc.Create(tctx, CreateInvitationInput{Role: invitation.RoleStudent, AcademicYearID: ay.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.SchoolID == nil || *created.SchoolID != school.ID || created.DistrictID == nil || *created.DistrictID != district.ID {
		t.Fatalf("code not scoped to the teacher: %+v", created.InvitationCode)
	}

	other := testutil.SeedUser(t, ctx, db, "other@north.org", invitation.RoleTeacher)
	err = svc.Delete(asUser(ctx, other.ID, invitation.RoleTeacher), created.ID)
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusForbidden {
		t.Fatalf("expected 403 deleting another teacher's code, got %v", err)
	}
	if err := svc.Delete(tctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != invitation.CodeLength {
			t.Fatalf("len(%q) = %d", code, len(code))
		}
		if NormalizeCode(code) != code {
			t.Fatalf("generated code %q is not normalized", code)
		}
	}
}
