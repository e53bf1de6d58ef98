package seed

import (
	"context"
	"fmt"
	"strings"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type Deps struct {
	Org          services.OrgService
	Curriculum   services.CurriculumService
	LessonPlan   services.LessonPlanService
	AuthProvider services.AuthProvider
}

type Report struct {
	Districts int
	Schools   int
	Years     int
	Subjects  int
	Lessons   int
	Lookups   int
	Admin     bool
}

// Apply writes f through the services. Districts and subjects that already exist by name are skipped,
// so running the same fixture twice is harmless.
func Apply(ctx context.Context, log *logger.Logger, d Deps, f *Fixture) (Report, error) {
	var rep Report
	log = log.With("component", "seed")

	existingDistricts, err := d.Org.ListDistricts(ctx)
	if err != nil {
		return rep, fmt.Errorf("list districts: %w", err)
	}
	for _, fd := range f.Districts {
		if findDistrict(existingDistricts, fd.Name) != nil {
			log.Info("district exists, skipping", "name", fd.Name)
			continue
		}
		district, err := d.Org.CreateDistrict(ctx, services.DistrictInput{Name: fd.Name, Domains: fd.Domains})
		if err != nil {
			return rep, fmt.Errorf("create district %q: %w", fd.Name, err)
		}
		rep.Districts++
		for _, name := range fd.Schools {
			if _, err := d.Org.CreateSchool(ctx, district.ID, services.SchoolInput{Name: name}); err != nil {
				return rep, fmt.Errorf("create school %q: %w", name, err)
			}
			rep.Schools++
		}
		for _, ay := range fd.AcademicYears {
			districtID := district.ID
			if _, err := d.Org.CreateAcademicYear(ctx, services.AcademicYearInput{
				DistrictID: &districtID,
				Name:       ay.Name,
				StartDate:  ay.StartDate,
				ExpiryDate: ay.ExpiryDate,
			}); err != nil {
				return rep, fmt.Errorf("create academic year %q: %w", ay.Name, err)
			}
			rep.Years++
		}
	}

	existingSubjects, err := d.Curriculum.ListSubjects(ctx)
	if err != nil {
		return rep, fmt.Errorf("list subjects: %w", err)
	}
	for _, fs := range f.Subjects {
		if findSubject(existingSubjects, fs.Name) != nil {
			log.Info("subject exists, skipping", "name", fs.Name)
			continue
		}
		n, err := seedSubject(ctx, d.Curriculum, fs)
		if err != nil {
			return rep, err
		}
		rep.Subjects++
		rep.Lessons += n
	}

	for _, name := range f.SectionNames {
		if _, err := d.LessonPlan.CreateSectionName(ctx, name); err != nil {
			return rep, fmt.Errorf("create section name %q: %w", name, err)
		}
		rep.Lookups++
	}
	for _, name := range f.Focuses {
		if _, err := d.LessonPlan.CreateFocus(ctx, name); err != nil {
			return rep, fmt.Errorf("create focus %q: %w", name, err)
		}
		rep.Lookups++
	}

	if f.Admin != nil {
		_, err := d.AuthProvider.CreateUser(dbctx.Context{Ctx: ctx}, services.NewAuthUser{
			Email:     f.Admin.Email,
			Password:  f.Admin.Password,
			FirstName: f.Admin.FirstName,
			LastName:  f.Admin.LastName,
			Role:      invitation.RoleAdmin,
		})
		switch ae, ok := apierr.As(err); {
		case err == nil:
			rep.Admin = true
		case ok && ae.Code == "email_taken":
			log.Info("admin user exists, skipping")
		default:
			return rep, fmt.Errorf("create admin user: %w", err)
		}
	}

	log.Info("seed applied",
		"districts", rep.Districts,
		"schools", rep.Schools,
		"academic_years", rep.Years,
		"subjects", rep.Subjects,
		"lessons", rep.Lessons,
		"lookups", rep.Lookups,
	)
	return rep, nil
}

func seedSubject(ctx context.Context, curriculum services.CurriculumService, fs Subject) (int, error) {
	subject, err := curriculum.CreateSubject(ctx, services.SubjectInput{Name: fs.Name, Description: fs.Description})
	if err != nil {
		return 0, fmt.Errorf("create subject %q: %w", fs.Name, err)
	}
	lessons := 0
	for _, fu := range fs.Units {
		unit, err := curriculum.CreateUnit(ctx, subject.ID, services.NodeInput{Name: fu.Name})
		if err != nil {
			return lessons, fmt.Errorf("create unit %q: %w", fu.Name, err)
		}
		for _, fc := range fu.Chapters {
			chapter, err := curriculum.CreateChapter(ctx, unit.ID, services.NodeInput{Name: fc.Name})
			if err != nil {
				return lessons, fmt.Errorf("create chapter %q: %w", fc.Name, err)
			}
			for _, name := range fc.Lessons {
				if _, err := curriculum.CreateLesson(ctx, chapter.ID, services.NodeInput{Name: name}); err != nil {
					return lessons, fmt.Errorf("create lesson %q: %w", name, err)
				}
				lessons++
			}
		}
	}
	return lessons, nil
}

func findDistrict(rows []*types.District, name string) *types.District {
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) {
			return r
		}
	}
	return nil
}

func findSubject(rows []*types.Subject, name string) *types.Subject {
	for _, r := range rows {
		if strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) {
			return r
		}
	}
	return nil
}
