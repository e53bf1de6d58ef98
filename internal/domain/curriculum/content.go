package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Kind string

const (
	KindReading          Kind = "reading"
	KindReadingAddon     Kind = "reading_addon"
	KindSubReading       Kind = "sub_reading"
	KindSource           Kind = "source"
	KindInTextSource     Kind = "in_text_source"
	KindQuestion         Kind = "question"
	KindGraphicOrganizer Kind = "graphic_organizer"
	KindVocabulary       Kind = "vocabulary"
	KindImage            Kind = "image"
)

// Kinds lists every activity-type kind, in storage order.
var Kinds = []Kind{
	KindReading,
	KindReadingAddon,
	KindSubReading,
	KindSource,
	KindInTextSource,
	KindQuestion,
	KindGraphicOrganizer,
	KindVocabulary,
	KindImage,
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Content is the detail record behind an ActivityType. Its primary key equals the ActivityType id.
type Content interface {
	Kind() Kind
	ContentID() uuid.UUID
	SetContentID(id uuid.UUID)
	ParentID() uuid.UUID
	SetParentID(id uuid.UUID)
	Position() *int
	SetPosition(order int)
}

// Positioned carries the columns every activity-type table shares besides its keys.
type Positioned struct {
	Order     *int      `gorm:"column:order" json:"order,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

func (b *Positioned) Position() *int { return b.Order }
func (b *Positioned) SetPosition(order int) {
	o := order
	b.Order = &o
}

type Reading struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:reading_id" json:"reading_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	Title      string    `gorm:"column:title" json:"title"`
	Body       string    `gorm:"column:body;type:text" json:"body" validate:"required"`
	ImageKey   string    `gorm:"column:image_key" json:"image_key,omitempty"`
	Positioned
}

func (Reading) TableName() string            { return "readings" }
func (*Reading) Kind() Kind                  { return KindReading }
func (r *Reading) ContentID() uuid.UUID      { return r.ID }
func (r *Reading) SetContentID(id uuid.UUID) { r.ID = id }
func (r *Reading) ParentID() uuid.UUID       { return r.ActivityID }
func (r *Reading) SetParentID(id uuid.UUID)  { r.ActivityID = id }

type ReadingAddon struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:reading_addon_id" json:"reading_addon_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	Title      string    `gorm:"column:title" json:"title"`
	Body       string    `gorm:"column:body;type:text" json:"body" validate:"required"`
	Positioned
}

func (ReadingAddon) TableName() string            { return "reading_addons" }
func (*ReadingAddon) Kind() Kind                  { return KindReadingAddon }
func (r *ReadingAddon) ContentID() uuid.UUID      { return r.ID }
func (r *ReadingAddon) SetContentID(id uuid.UUID) { r.ID = id }
func (r *ReadingAddon) ParentID() uuid.UUID       { return r.ActivityID }
func (r *ReadingAddon) SetParentID(id uuid.UUID)  { r.ActivityID = id }

type SubReading struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:sub_reading_id" json:"sub_reading_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	Title      string    `gorm:"column:title" json:"title"`
	Body       string    `gorm:"column:body;type:text" json:"body" validate:"required"`
	Positioned
}

func (SubReading) TableName() string            { return "sub_readings" }
func (*SubReading) Kind() Kind                  { return KindSubReading }
func (r *SubReading) ContentID() uuid.UUID      { return r.ID }
func (r *SubReading) SetContentID(id uuid.UUID) { r.ID = id }
func (r *SubReading) ParentID() uuid.UUID       { return r.ActivityID }
func (r *SubReading) SetParentID(id uuid.UUID)  { r.ActivityID = id }

type Source struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:source_id" json:"source_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	Title      string    `gorm:"column:title" json:"title" validate:"required"`
	Citation   string    `gorm:"column:citation" json:"citation,omitempty"`
	Body       string    `gorm:"column:body;type:text" json:"body,omitempty"`
	URL        string    `gorm:"column:url" json:"url,omitempty" validate:"omitempty,url"`
	Positioned
}

func (Source) TableName() string            { return "sources" }
func (*Source) Kind() Kind                  { return KindSource }
func (s *Source) ContentID() uuid.UUID      { return s.ID }
func (s *Source) SetContentID(id uuid.UUID) { s.ID = id }
func (s *Source) ParentID() uuid.UUID       { return s.ActivityID }
func (s *Source) SetParentID(id uuid.UUID)  { s.ActivityID = id }

// InTextSource keeps the historical "actvity_id" spelling of its parent column.
type InTextSource struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:in_text_source_id" json:"in_text_source_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:actvity_id;not null;index" json:"actvity_id"`
	Title      string    `gorm:"column:title" json:"title" validate:"required"`
	Citation   string    `gorm:"column:citation" json:"citation,omitempty"`
	Body       string    `gorm:"column:body;type:text" json:"body,omitempty"`
	Positioned
}

func (InTextSource) TableName() string            { return "in_text_source" }
func (*InTextSource) Kind() Kind                  { return KindInTextSource }
func (s *InTextSource) ContentID() uuid.UUID      { return s.ID }
func (s *InTextSource) SetContentID(id uuid.UUID) { s.ID = id }
func (s *InTextSource) ParentID() uuid.UUID       { return s.ActivityID }
func (s *InTextSource) SetParentID(id uuid.UUID)  { s.ActivityID = id }

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeShortAnswer    = "short_answer"
	QuestionTypeExtended       = "extended_response"
	QuestionTypeTwoPart        = "two_part"
)

type AnswerOption struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;column:question_id" json:"question_id"`
	ActivityID    uuid.UUID      `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	QuestionText  string         `gorm:"column:question_text;type:text;not null" json:"question_text" validate:"required"`
	QuestionType  string         `gorm:"column:question_type;not null" json:"question_type" validate:"required,oneof=multiple_choice short_answer extended_response two_part"`
	AnswerOptions datatypes.JSON `gorm:"column:answer_options" json:"answerOptions,omitempty"`
	PartBText     *string        `gorm:"column:part_b_text;type:text" json:"part_b_text,omitempty"`
	Positioned
}

func (Question) TableName() string            { return "questions" }
func (*Question) Kind() Kind                  { return KindQuestion }
func (q *Question) ContentID() uuid.UUID      { return q.ID }
func (q *Question) SetContentID(id uuid.UUID) { q.ID = id }
func (q *Question) ParentID() uuid.UUID       { return q.ActivityID }
func (q *Question) SetParentID(id uuid.UUID)  { q.ActivityID = id }

type GraphicOrganizer struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:graphic_organizer_id" json:"graphic_organizer_id"`
	ActivityID uuid.UUID      `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	Title      string         `gorm:"column:title" json:"title"`
	Table      datatypes.JSON `gorm:"column:table_json" json:"table" validate:"required"`
	Positioned
}

func (GraphicOrganizer) TableName() string            { return "graphic_organizers" }
func (*GraphicOrganizer) Kind() Kind                  { return KindGraphicOrganizer }
func (g *GraphicOrganizer) ContentID() uuid.UUID      { return g.ID }
func (g *GraphicOrganizer) SetContentID(id uuid.UUID) { g.ID = id }
func (g *GraphicOrganizer) ParentID() uuid.UUID       { return g.ActivityID }
func (g *GraphicOrganizer) SetParentID(id uuid.UUID)  { g.ActivityID = id }

type Image struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:image_id" json:"image_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	ImageKey   string    `gorm:"column:image_key;not null" json:"image_key" validate:"required,startswith=reading_images/"`
	Caption    string    `gorm:"column:caption" json:"caption,omitempty"`
	AltText    string    `gorm:"column:alt_text" json:"alt_text,omitempty"`
	URL        string    `gorm:"-" json:"url,omitempty"`
	Positioned
}

func (Image) TableName() string            { return "images" }
func (*Image) Kind() Kind                  { return KindImage }
func (i *Image) ContentID() uuid.UUID      { return i.ID }
func (i *Image) SetContentID(id uuid.UUID) { i.ID = id }
func (i *Image) ParentID() uuid.UUID       { return i.ActivityID }
func (i *Image) SetParentID(id uuid.UUID)  { i.ActivityID = id }
