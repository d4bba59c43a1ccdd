package models

import (
	"time"

	"github.com/lib/pq"
)

const DefaultJobLifetime = 30 * 24 * time.Hour

type Job struct {
	BaseModel
	Title           string          `gorm:"size:100;not null" json:"title"`
	Description     string          `gorm:"size:5000;not null" json:"description"`
	Requirements    string          `gorm:"size:3000" json:"requirements,omitempty"`
	Location        string          `gorm:"size:100;index" json:"location"`
	SalaryMin       *int            `json:"salary_min,omitempty"`
	SalaryMax       *int            `json:"salary_max,omitempty"`
	SalaryCurrency  string          `gorm:"size:3;default:'USD'" json:"salary_currency"`
	JobType         JobType         `gorm:"type:varchar(20);index" json:"job_type"`
	ExperienceLevel ExperienceLevel `gorm:"type:varchar(20);index" json:"experience_level"`
	Skills          pq.StringArray  `gorm:"type:text[]" json:"skills"`
	Benefits        pq.StringArray  `gorm:"type:text[]" json:"benefits"`
	CompanyID       string          `gorm:"type:uuid;not null;index" json:"company_id"`
	PostedByID      string          `gorm:"type:uuid;not null;index" json:"posted_by"`
	IsActive        bool            `gorm:"default:true;index" json:"is_active"`
	ExpiresAt       time.Time       `gorm:"not null;index" json:"expires_at"`

	Company  *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	PostedBy *User    `gorm:"foreignKey:PostedByID" json:"-"`
}

// AcceptsApplications is true while the job is active and not expired.
func (j *Job) AcceptsApplications(now time.Time) bool {
	return j.IsActive && j.ExpiresAt.After(now)
}
