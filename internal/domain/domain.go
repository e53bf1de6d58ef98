package domain

import (
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/auth"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/curriculum"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/invitation"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/lessonplan"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/org"
	"github.com/PelicanED-online/pelicaned-backend/internal/domain/user"
)

type (
	User                 = user.User
	UserInformation      = user.UserInformation
	SchoolRegistration   = user.SchoolRegistration
	DistrictRegistration = user.DistrictRegistration
	UserToken            = auth.UserToken

	Subject      = curriculum.Subject
	Unit         = curriculum.Unit
	Chapter      = curriculum.Chapter
	Lesson       = curriculum.Lesson
	Activity     = curriculum.Activity
	ActivityType = curriculum.ActivityType
	Content      = curriculum.Content
	Kind         = curriculum.Kind
	Published    = curriculum.Published

	Reading          = curriculum.Reading
	ReadingAddon     = curriculum.ReadingAddon
	SubReading       = curriculum.SubReading
	Source           = curriculum.Source
	InTextSource     = curriculum.InTextSource
	Question         = curriculum.Question
	GraphicOrganizer = curriculum.GraphicOrganizer
	VocabularyWord   = curriculum.VocabularyWord
	VocabularyList   = curriculum.VocabularyList
	VocabularyItem   = curriculum.VocabularyItem
	Image            = curriculum.Image

	LessonPlan  = lessonplan.LessonPlan
	Section     = lessonplan.Section
	SectionName = lessonplan.SectionName
	Direction   = lessonplan.Direction
	Focus       = lessonplan.Focus

	District            = org.District
	DistrictEmailDomain = org.DistrictEmailDomain
	School              = org.School
	AcademicYear        = org.AcademicYear
	Subscription        = org.Subscription

	InvitationCode    = invitation.InvitationCode
	InvitationCodeUse = invitation.InvitationCodeUse
	InvitationStatus  = invitation.Status
)

const (
	PublishedYes = curriculum.PublishedYes
	PublishedNo  = curriculum.PublishedNo

	KindReading          = curriculum.KindReading
	KindReadingAddon     = curriculum.KindReadingAddon
	KindSubReading       = curriculum.KindSubReading
	KindSource           = curriculum.KindSource
	KindInTextSource     = curriculum.KindInTextSource
	KindQuestion         = curriculum.KindQuestion
	KindGraphicOrganizer = curriculum.KindGraphicOrganizer
	KindVocabulary       = curriculum.KindVocabulary
	KindImage            = curriculum.KindImage
)
