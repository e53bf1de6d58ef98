package lessonplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/domain/curriculum"
)

type LessonPlan struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey;column:lesson_plan_id" json:"lesson_plan_id"`
	LessonID  uuid.UUID            `gorm:"type:uuid;column:lesson_id;not null;uniqueIndex" json:"lesson_id"`
	Title     string               `gorm:"column:title" json:"title"`
	Published curriculum.Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time            `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LessonPlan) TableName() string { return "lesson_plans" }

// SectionName is a lookup row ("Warm Up", "Guided Practice", ...).
type SectionName struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;column:section_name_id" json:"section_name_id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (SectionName) TableName() string { return "section_names" }

type Focus struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;column:focus_id" json:"focus_id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (Focus) TableName() string { return "focuses" }

type Section struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey;column:section_id" json:"section_id"`
	LessonPlanID  uuid.UUID            `gorm:"type:uuid;column:lesson_plan_id;not null;index" json:"lesson_plan_id"`
	SectionNameID uuid.UUID            `gorm:"type:uuid;column:section_name_id;not null" json:"section_name_id"`
	Order         int                  `gorm:"column:order;not null;default:1" json:"order"`
	Published     curriculum.Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt     time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Section) TableName() string { return "sections" }

// Direction is a timed instructional step within a section.
type Direction struct {
	ID         uuid.UUID            `gorm:"type:uuid;primaryKey;column:direction_id" json:"direction_id"`
	SectionID  uuid.UUID            `gorm:"type:uuid;column:section_id;not null;index" json:"section_id"`
	Order      int                  `gorm:"column:order;not null;default:1" json:"order"`
	Minutes    int                  `gorm:"column:minutes;not null;default:0" json:"minutes"`
	FocusID    *uuid.UUID           `gorm:"type:uuid;column:focus_id" json:"focus_id,omitempty"`
	ActivityID *uuid.UUID           `gorm:"type:uuid;column:activity_id" json:"activity_id,omitempty"`
	Directions string               `gorm:"column:directions;type:text" json:"directions"`
	Support    string               `gorm:"column:support;type:text" json:"support,omitempty"`
	Answers    string               `gorm:"column:answers;type:text" json:"answers,omitempty"`
	SlideKey   *string              `gorm:"column:slide_key" json:"slide_key,omitempty"`
	SlideURL   string               `gorm:"-" json:"slide_url,omitempty"`
	Published  curriculum.Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt  time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time            `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Direction) TableName() string { return "directions" }
