package curriculum

import (
	"time"

	"github.com/google/uuid"
)

// VocabularyWord is one stored row of the vocabulary table. VocabOrder orders words within the
// activity independently of Order, which positions the vocabulary block among its siblings.
type VocabularyWord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:vocabulary_id" json:"vocabulary_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`
	Word       string    `gorm:"column:word;not null" json:"word"`
	Definition string    `gorm:"column:definition;type:text" json:"definition"`
	VocabOrder int       `gorm:"column:vocab_order;not null;default:0" json:"vocab_order"`
	Order      *int      `gorm:"column:order" json:"order,omitempty"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"-"`
}

func (VocabularyWord) TableName() string { return "vocabulary" }

type VocabularyItem struct {
	Word       string `json:"word" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}

// VocabularyList is the collapsed detail of all vocabulary rows of one activity.
// Its id is synthetic and not stored.
type VocabularyList struct {
	ID         uuid.UUID        `json:"id"`
	ActivityID uuid.UUID        `json:"activity_id"`
	Items      []VocabularyItem `json:"items" validate:"required,min=1,dive"`
	Order      *int             `json:"order,omitempty"`
}

func (*VocabularyList) Kind() Kind                  { return KindVocabulary }
func (v *VocabularyList) ContentID() uuid.UUID      { return v.ID }
func (v *VocabularyList) SetContentID(id uuid.UUID) { v.ID = id }
func (v *VocabularyList) ParentID() uuid.UUID       { return v.ActivityID }
func (v *VocabularyList) SetParentID(id uuid.UUID)  { v.ActivityID = id }
func (v *VocabularyList) Position() *int            { return v.Order }
func (v *VocabularyList) SetPosition(order int) {
	o := order
	v.Order = &o
}
