package curriculum

import (
	"time"

	"github.com/google/uuid"
)

// Published is stored as the enum strings "Yes" and "No".
type Published string

const (
	PublishedYes Published = "Yes"
	PublishedNo  Published = "No"
)

func (p Published) Valid() bool { return p == PublishedYes || p == PublishedNo }

type Subject struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_id" json:"subject_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Order       int       `gorm:"column:order;not null;default:1" json:"order"`
	Published   Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Subject) TableName() string { return "subjects" }

type Unit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:unit_id" json:"unit_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;column:subject_id;not null;index" json:"subject_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Order     int       `gorm:"column:order;not null;default:1" json:"order"`
	Published Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Unit) TableName() string { return "units" }

type Chapter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:chapter_id" json:"chapter_id"`
	UnitID    uuid.UUID `gorm:"type:uuid;column:unit_id;not null;index" json:"unit_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Order     int       `gorm:"column:order;not null;default:1" json:"order"`
	Published Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapters" }

type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:lesson_id" json:"lesson_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;column:chapter_id;not null;index" json:"chapter_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Order     int       `gorm:"column:order;not null;default:1" json:"order"`
	Published Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Lesson) TableName() string { return "lessons" }

// Activity is one positioned unit of lesson content. Order is dense and 1-based within the lesson.
type Activity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:activity_id" json:"activity_id"`
	LessonID  uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;index" json:"lesson_id"`
	Order     int       `gorm:"column:order;not null;default:1" json:"order"`
	Name      string    `gorm:"column:name" json:"name"`
	Published Published `gorm:"column:published;not null;default:'No'" json:"published"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Activity) TableName() string { return "activities" }

// ActivityType is the positioned, kind-tagged reference from an activity to one content row.
// Order is dense and 0-based within the parent activity.
type ActivityType struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activity_id"`
	Type       Kind      `json:"type"`
	Order      int       `json:"order"`
}
