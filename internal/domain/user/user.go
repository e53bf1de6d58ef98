package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the authentication record owned by the local auth provider.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string    `gorm:"not null;column:password_hash" json:"-"`
	FirstName    string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName     string    `gorm:"not null;column:last_name" json:"last_name"`
	Role         string    `gorm:"not null;column:role;default:'student'" json:"role"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserInformation is the denormalized profile written at registration.
type UserInformation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_information_id" json:"user_information_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;column:user_id;not null;uniqueIndex" json:"user_id"`
	Email      string     `gorm:"column:email;not null" json:"email"`
	FirstName  string     `gorm:"column:first_name" json:"first_name"`
	LastName   string     `gorm:"column:last_name" json:"last_name"`
	Role       string     `gorm:"column:role;not null" json:"role"`
	DistrictID *uuid.UUID `gorm:"type:uuid;column:district_id;index" json:"district_id,omitempty"`
	SchoolID   *uuid.UUID `gorm:"type:uuid;column:school_id;index" json:"school_id,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (UserInformation) TableName() string { return "user_information" }

type SchoolRegistration struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;column:school_registration_id" json:"school_registration_id"`
	UserID         uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	SchoolID       uuid.UUID `gorm:"type:uuid;column:school_id;not null;index" json:"school_id"`
	AcademicYearID uuid.UUID `gorm:"type:uuid;column:academic_year_id;not null" json:"academic_year_id"`
	Role           string    `gorm:"column:role;not null" json:"role"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (SchoolRegistration) TableName() string { return "school_registrations" }

type DistrictRegistration struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;column:district_registration_id" json:"district_registration_id"`
	UserID         uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	DistrictID     uuid.UUID `gorm:"type:uuid;column:district_id;not null;index" json:"district_id"`
	AcademicYearID uuid.UUID `gorm:"type:uuid;column:academic_year_id;not null" json:"academic_year_id"`
	Role           string    `gorm:"column:role;not null" json:"role"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (DistrictRegistration) TableName() string { return "district_registrations" }
