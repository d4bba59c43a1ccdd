package models

import (
	"time"

	"gorm.io/datatypes"
)

// ApplicantInfo is a snapshot taken when the application is submitted.
type ApplicantInfo struct {
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Email    string `gorm:"not null" json:"email"`
	Phone    string `gorm:"size:20" json:"phone,omitempty"`
}

type Interview struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Location    string     `json:"location,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
}

// Application: at most one per (applicant, job), guarded by
// idx_applications_applicant_job.
type Application struct {
	BaseModel
	ApplicantID string            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_job,priority:1" json:"applicant_id"`
	JobID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_job,priority:2;index" json:"job_id"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	ApplicantInfo ApplicantInfo `gorm:"embedded;embeddedPrefix:applicant_" json:"applicant_info"`

	Documents datatypes.JSONType[ApplicationDocuments] `gorm:"type:jsonb" json:"documents"`

	CoverLetterText string `gorm:"size:2000" json:"cover_letter_text,omitempty"`
	AdditionalInfo  string `gorm:"size:1000" json:"additional_info,omitempty"`

	Withdrawn        bool       `gorm:"default:false;index" json:"withdrawn"`
	WithdrawnAt      *time.Time `json:"withdrawn_at,omitempty"`
	WithdrawalReason string     `gorm:"size:500" json:"withdrawal_reason,omitempty"`

	RecruiterNotes string                         `gorm:"size:1000" json:"recruiter_notes,omitempty"`
	Interview      *datatypes.JSONType[Interview] `gorm:"type:jsonb" json:"interview,omitempty"`

	AppliedAt         time.Time  `gorm:"not null;index" json:"applied_at"`
	StatusUpdatedAt   *time.Time `json:"status_updated_at,omitempty"`
	StatusUpdatedByID *string    `gorm:"type:uuid" json:"status_updated_by,omitempty"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

// CanBeWithdrawn: pending or reviewing, and not withdrawn yet.
func (a *Application) CanBeWithdrawn() bool {
	if a.Withdrawn {
		return false
	}
	return a.Status == ApplicationStatusPending || a.Status == ApplicationStatusReviewing
}

func (a *Application) Docs() ApplicationDocuments {
	return a.Documents.Data()
}
