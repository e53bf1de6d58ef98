package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
)

func SeedDistrict(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, domains ...string) *types.District {
	tb.Helper()
	d := &types.District{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed district: %v", err)
	}
	for _, domain := range domains {
		row := &types.DistrictEmailDomain{ID: uuid.New(), DistrictID: d.ID, Domain: domain}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed district domain: %v", err)
		}
	}
	return d
}

func SeedSchool(tb testing.TB, ctx context.Context, tx *gorm.DB, districtID uuid.UUID, name string) *types.School {
	tb.Helper()
	s := &types.School{ID: uuid.New(), DistrictID: districtID, Name: name}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed school: %v", err)
	}
	return s
}

func SeedAcademicYear(tb testing.TB, ctx context.Context, tx *gorm.DB, districtID *uuid.UUID, expiry time.Time) *types.AcademicYear {
	tb.Helper()
	ay := &types.AcademicYear{
		ID:         uuid.New(),
		DistrictID: districtID,
		Name:       fmt.Sprintf("%d-%d", expiry.Year()-1, expiry.Year()),
		StartDate:  datatypes.Date(expiry.AddDate(-1, 0, 0)),
		ExpiryDate: datatypes.Date(expiry),
	}
	if err := tx.WithContext(ctx).Create(ay).Error; err != nil {
		tb.Fatalf("seed academic year: %v", err)
	}
	return ay
}

// SeedLesson creates a subject, unit, chapter and lesson chain and returns the lesson.
func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Lesson {
	tb.Helper()
	subject := SeedSubject(tb, ctx, tx, "Social Studies")
	unit := &types.Unit{ID: uuid.New(), SubjectID: subject.ID, Name: "Unit", Order: 1, Published: types.PublishedNo}
	if err := tx.WithContext(ctx).Create(unit).Error; err != nil {
		tb.Fatalf("seed unit: %v", err)
	}
	chapter := &types.Chapter{ID: uuid.New(), UnitID: unit.ID, Name: "Chapter", Order: 1, Published: types.PublishedNo}
	if err := tx.WithContext(ctx).Create(chapter).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	lesson := &types.Lesson{ID: uuid.New(), ChapterID: chapter.ID, Name: "Lesson", Order: 1, Published: types.PublishedNo}
	if err := tx.WithContext(ctx).Create(lesson).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return lesson
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{ID: uuid.New(), Name: name, Order: 1, Published: types.PublishedYes}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, order int) *types.Activity {
	tb.Helper()
	a := &types.Activity{ID: uuid.New(), LessonID: lessonID, Order: order, Name: fmt.Sprintf("activity %d", order), Published: types.PublishedNo}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedInvitationCode(tb testing.TB, ctx context.Context, tx *gorm.DB, code, role string, academicYearID uuid.UUID, districtID *uuid.UUID, numberOfUses *int) *types.InvitationCode {
	tb.Helper()
	ic := &types.InvitationCode{
		ID:             uuid.New(),
		Code:           code,
		Role:           role,
		DistrictID:     districtID,
		AcademicYearID: academicYearID,
		NumberOfUses:   numberOfUses,
		CodeType:       "registration",
	}
	if err := tx.WithContext(ctx).Create(ic).Error; err != nil {
		tb.Fatalf("seed invitation code: %v", err)
	}
	return ic
}

func SeedInvitationUses(tb testing.TB, ctx context.Context, tx *gorm.DB, codeID uuid.UUID, n int) {
	tb.Helper()
	if n == 0 {
		return
	}
	rows := make([]*types.InvitationCodeUse, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &types.InvitationCodeUse{
			ID:               uuid.New(),
			InvitationCodeID: codeID,
			UserID:           uuid.New(),
			UsedAt:           time.Now().UTC(),
		})
	}
	if err := tx.WithContext(ctx).CreateInBatches(rows, 200).Error; err != nil {
		tb.Fatalf("seed invitation uses: %v", err)
	}
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "pw",
		FirstName:    "A",
		LastName:     "B",
		Role:         role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrInt(v int) *int { return &v }

func SeedUserInformation(tb testing.TB, ctx context.Context, tx *gorm.DB, u *types.User, districtID, schoolID *uuid.UUID) *types.UserInformation {
	tb.Helper()
	info := &types.UserInformation{
		ID:         uuid.New(),
		UserID:     u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		DistrictID: districtID,
		SchoolID:   schoolID,
	}
	if err := tx.WithContext(ctx).Create(info).Error; err != nil {
		tb.Fatalf("seed user information: %v", err)
	}
	return info
}
