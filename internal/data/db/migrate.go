package db

import (
	"fmt"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table, parents first.
func Models() []any {
	return []any{
		// Identity + auth
		&types.User{},
		&types.UserToken{},
		&types.UserInformation{},
		&types.SchoolRegistration{},
		&types.DistrictRegistration{},

		// Organisation
		&types.District{},
		&types.DistrictEmailDomain{},
		&types.School{},
		&types.AcademicYear{},
		&types.Subscription{},

		// Invitations
		&types.InvitationCode{},
		&types.InvitationCodeUse{},

		// Curriculum
		&types.Subject{},
		&types.Unit{},
		&types.Chapter{},
		&types.Lesson{},
		&types.Activity{},

		// Activity types
		&types.Reading{},
		&types.ReadingAddon{},
		&types.SubReading{},
		&types.Source{},
		&types.InTextSource{},
		&types.Question{},
		&types.GraphicOrganizer{},
		&types.VocabularyWord{},
		&types.Image{},

		// Lesson plans
		&types.LessonPlan{},
		&types.SectionName{},
		&types.Focus{},
		&types.Section{},
		&types.Direction{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureOrderIndexes(db)
}

// EnsureOrderIndexes adds the (parent, order) lookups used by every ordered list.
func EnsureOrderIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_units_subject_order ON units(subject_id, "order");`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_unit_order ON chapters(unit_id, "order");`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_chapter_order ON lessons(chapter_id, "order");`,
		`CREATE INDEX IF NOT EXISTS idx_activities_lesson_order ON activities(lesson_id, "order");`,
		`CREATE INDEX IF NOT EXISTS idx_sections_plan_order ON sections(lesson_plan_id, "order");`,
		`CREATE INDEX IF NOT EXISTS idx_directions_section_order ON directions(section_id, "order");`,
		`CREATE INDEX IF NOT EXISTS idx_vocabulary_activity_vocab_order ON vocabulary(activity_id, vocab_order);`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
