package org

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type District struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:district_id" json:"district_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (District) TableName() string { return "districts" }

// DistrictEmailDomain is one entry of a district's registration allow-list.
type DistrictEmailDomain struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:district_email_domain_id" json:"district_email_domain_id"`
	DistrictID uuid.UUID `gorm:"type:uuid;column:district_id;not null;uniqueIndex:idx_district_domain" json:"district_id"`
	Domain     string    `gorm:"column:domain;not null;uniqueIndex:idx_district_domain" json:"domain"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (DistrictEmailDomain) TableName() string { return "district_email_domains" }

type School struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:school_id" json:"school_id"`
	DistrictID uuid.UUID `gorm:"type:uuid;column:district_id;not null;index" json:"district_id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (School) TableName() string { return "schools" }

// AcademicYear gates invitation codes and subscriptions through ExpiryDate.
type AcademicYear struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`
	DistrictID *uuid.UUID     `gorm:"type:uuid;column:district_id;index" json:"district_id,omitempty"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	StartDate  datatypes.Date `gorm:"column:start_date" json:"start_date"`
	ExpiryDate datatypes.Date `gorm:"column:expiry_date;not null" json:"expiry_date"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (AcademicYear) TableName() string { return "academic_years" }

// ExpiredOn reports whether day (date-only) is strictly after the expiry date.
func (ay AcademicYear) ExpiredOn(day time.Time) bool {
	return DateOnly(day).After(DateOnly(time.Time(ay.ExpiryDate)))
}

// DateOnly truncates t to midnight UTC of its calendar day in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

type Subscription struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;column:subscription_id" json:"subscription_id"`
	DistrictID     uuid.UUID  `gorm:"type:uuid;column:district_id;not null;index" json:"district_id"`
	SchoolID       *uuid.UUID `gorm:"type:uuid;column:school_id;index" json:"school_id,omitempty"`
	SubjectID      uuid.UUID  `gorm:"type:uuid;column:subject_id;not null" json:"subject_id"`
	AcademicYearID uuid.UUID  `gorm:"type:uuid;column:academic_year_id;not null" json:"academic_year_id"`
	Seats          *int       `gorm:"column:seats" json:"seats,omitempty"`
	Cancelled      bool       `gorm:"column:cancelled;not null;default:false" json:"cancelled"`
	Status         string     `gorm:"-" json:"status"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
