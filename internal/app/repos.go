package app

import (
	"gorm.io/gorm"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	Registration repos.RegistrationRepo
	UserToken    repos.UserTokenRepo

	Subject  repos.SubjectRepo
	Unit     repos.UnitRepo
	Chapter  repos.ChapterRepo
	Lesson   repos.LessonRepo
	Activity repos.ActivityRepo
	Contents repos.ContentRepos

	LessonPlan repos.LessonPlanRepo
	Section    repos.SectionRepo
	Direction  repos.DirectionRepo
	Lookup     repos.LookupRepo

	District     repos.DistrictRepo
	School       repos.SchoolRepo
	AcademicYear repos.AcademicYearRepo
	Subscription repos.SubscriptionRepo

	InvitationCode    repos.InvitationCodeRepo
	InvitationCodeUse repos.InvitationCodeUseRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Registration: repos.NewRegistrationRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),

		Subject:  repos.NewSubjectRepo(db, log),
		Unit:     repos.NewUnitRepo(db, log),
		Chapter:  repos.NewChapterRepo(db, log),
		Lesson:   repos.NewLessonRepo(db, log),
		Activity: repos.NewActivityRepo(db, log),
		Contents: repos.NewContentRepos(db, log),

		LessonPlan: repos.NewLessonPlanRepo(db, log),
		Section:    repos.NewSectionRepo(db, log),
		Direction:  repos.NewDirectionRepo(db, log),
		Lookup:     repos.NewLookupRepo(db, log),

		District:     repos.NewDistrictRepo(db, log),
		School:       repos.NewSchoolRepo(db, log),
		AcademicYear: repos.NewAcademicYearRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),

		InvitationCode:    repos.NewInvitationCodeRepo(db, log),
		InvitationCodeUse: repos.NewInvitationCodeUseRepo(db, log),
	}
}
