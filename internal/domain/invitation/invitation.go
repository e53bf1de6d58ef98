package invitation

import (
	"time"

	"github.com/google/uuid"
)

const (
	CodeLength   = 6
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

const (
	RoleAdmin    = "admin"
	RoleDistrict = "district"
	RoleSchool   = "school"
	RoleTeacher  = "teacher"
	RoleStudent  = "student"
)

var Roles = []string{RoleAdmin, RoleDistrict, RoleSchool, RoleTeacher, RoleStudent}

// RequiresSchool reports whether registering under role needs an explicit school.
func RequiresSchool(role string) bool {
	return role == RoleSchool || role == RoleTeacher
}

// InvitationCode grants registration rights with a role and scope. A nil NumberOfUses is unlimited.
type InvitationCode struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;column:invitation_code_id" json:"invitation_code_id"`
	Code           string     `gorm:"column:invitation_code;size:6;not null;uniqueIndex" json:"invitation_code"`
	Role           string     `gorm:"column:role;not null" json:"role"`
	SubjectID      *uuid.UUID `gorm:"type:uuid;column:subject_id" json:"subject_id,omitempty"`
	DistrictID     *uuid.UUID `gorm:"type:uuid;column:district_id;index" json:"district_id,omitempty"`
	SchoolID       *uuid.UUID `gorm:"type:uuid;column:school_id" json:"school_id,omitempty"`
	AcademicYearID uuid.UUID  `gorm:"type:uuid;column:academic_year_id;not null" json:"academic_year_id"`
	NumberOfUses   *int       `gorm:"column:number_of_uses" json:"number_of_uses"`
	CodeType       string     `gorm:"column:code_type" json:"code_type"`
	CreatedBy      *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (InvitationCode) TableName() string { return "invitation_codes" }

type InvitationCodeUse struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;column:invitation_code_use_id" json:"invitation_code_use_id"`
	InvitationCodeID uuid.UUID `gorm:"type:uuid;column:invitation_code_id;not null;index" json:"invitation_code_id"`
	UserID           uuid.UUID `gorm:"type:uuid;column:user_id;not null" json:"user_id"`
	UsedAt           time.Time `gorm:"column:used_at;not null" json:"used_at"`
}

func (InvitationCodeUse) TableName() string { return "invitation_code_uses" }

const (
	StatusAvailable   = "Available"
	StatusUnavailable = "Unavailable"
	StatusExpired     = "Expired"
)

// Status is the derived availability of a code.
type Status struct {
	UsageCount int64  `json:"usage_count"`
	Available  bool   `json:"available"`
	Expired    bool   `json:"expired"`
	Label      string `json:"label"`
}

// ComputeStatus derives availability. Expiry and the usage limit are independent; Expired wins the label.
func ComputeStatus(numberOfUses *int, usageCount int64, expired bool) Status {
	limitReached := numberOfUses != nil && usageCount >= int64(*numberOfUses)
	st := Status{UsageCount: usageCount, Expired: expired, Available: !limitReached && !expired}
	switch {
	case expired:
		st.Label = StatusExpired
	case limitReached:
		st.Label = StatusUnavailable
	default:
		st.Label = StatusAvailable
	}
	return st
}
