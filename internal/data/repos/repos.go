package repos

import (
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/auth"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/curriculum"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/lessonplan"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/org"
	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos/user"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type RegistrationRepo = user.RegistrationRepo
type UserTokenRepo = auth.UserTokenRepo

type SubjectRepo = curriculum.SubjectRepo
type UnitRepo = curriculum.UnitRepo
type ChapterRepo = curriculum.ChapterRepo
type LessonRepo = curriculum.LessonRepo
type ActivityRepo = curriculum.ActivityRepo
type ContentRepo = curriculum.ContentRepo
type ContentRepos = curriculum.ContentRepos
type VocabularyRepo = curriculum.VocabularyRepo

type LessonPlanRepo = lessonplan.LessonPlanRepo
type SectionRepo = lessonplan.SectionRepo
type DirectionRepo = lessonplan.DirectionRepo
type LookupRepo = lessonplan.LookupRepo

type DistrictRepo = org.DistrictRepo
type SchoolRepo = org.SchoolRepo
type AcademicYearRepo = org.AcademicYearRepo
type SubscriptionRepo = org.SubscriptionRepo

type InvitationCodeRepo = invitation.InvitationCodeRepo
type InvitationCodeUseRepo = invitation.InvitationCodeUseRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewRegistrationRepo(db *gorm.DB, log *logger.Logger) RegistrationRepo {
	return user.NewRegistrationRepo(db, log)
}
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewSubjectRepo(db *gorm.DB, log *logger.Logger) SubjectRepo {
	return curriculum.NewSubjectRepo(db, log)
}
func NewUnitRepo(db *gorm.DB, log *logger.Logger) UnitRepo { return curriculum.NewUnitRepo(db, log) }
func NewChapterRepo(db *gorm.DB, log *logger.Logger) ChapterRepo {
	return curriculum.NewChapterRepo(db, log)
}
func NewLessonRepo(db *gorm.DB, log *logger.Logger) LessonRepo {
	return curriculum.NewLessonRepo(db, log)
}
func NewActivityRepo(db *gorm.DB, log *logger.Logger) ActivityRepo {
	return curriculum.NewActivityRepo(db, log)
}
func NewContentRepos(db *gorm.DB, log *logger.Logger) ContentRepos {
	return curriculum.NewContentRepos(db, log)
}

func NewLessonPlanRepo(db *gorm.DB, log *logger.Logger) LessonPlanRepo {
	return lessonplan.NewLessonPlanRepo(db, log)
}
func NewSectionRepo(db *gorm.DB, log *logger.Logger) SectionRepo {
	return lessonplan.NewSectionRepo(db, log)
}
func NewDirectionRepo(db *gorm.DB, log *logger.Logger) DirectionRepo {
	return lessonplan.NewDirectionRepo(db, log)
}
func NewLookupRepo(db *gorm.DB, log *logger.Logger) LookupRepo {
	return lessonplan.NewLookupRepo(db, log)
}

func NewDistrictRepo(db *gorm.DB, log *logger.Logger) DistrictRepo {
	return org.NewDistrictRepo(db, log)
}
func NewSchoolRepo(db *gorm.DB, log *logger.Logger) SchoolRepo { return org.NewSchoolRepo(db, log) }
func NewAcademicYearRepo(db *gorm.DB, log *logger.Logger) AcademicYearRepo {
	return org.NewAcademicYearRepo(db, log)
}
func NewSubscriptionRepo(db *gorm.DB, log *logger.Logger) SubscriptionRepo {
	return org.NewSubscriptionRepo(db, log)
}

func NewInvitationCodeRepo(db *gorm.DB, log *logger.Logger) InvitationCodeRepo {
	return invitation.NewInvitationCodeRepo(db, log)
}
func NewInvitationCodeUseRepo(db *gorm.DB, log *logger.Logger) InvitationCodeUseRepo {
	return invitation.NewInvitationCodeUseRepo(db, log)
}
