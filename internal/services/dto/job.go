package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

type CreateJobRequest struct {
	Title           string                 `json:"title" validate:"required,min=3,max=100"`
	Description     string                 `json:"description" validate:"required,min=10,max=5000"`
	Requirements    string                 `json:"requirements,omitempty" validate:"omitempty,max=3000"`
	Location        string                 `json:"location" validate:"required,max=100"`
	SalaryMin       *int                   `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax       *int                   `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	SalaryCurrency  string                 `json:"salary_currency,omitempty" validate:"omitempty,len=3"`
	JobType         models.JobType         `json:"job_type" validate:"required,is-job-type"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level" validate:"required,is-experience-level"`
	Skills          []string               `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	Benefits        []string               `json:"benefits,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
	CompanyID       string                 `json:"company_id" validate:"required,uuid"`
	ExpiresAt       *time.Time             `json:"expires_at,omitempty"`
}

type UpdateJobRequest struct {
	Title           *string                 `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Description     *string                 `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	Requirements    *string                 `json:"requirements,omitempty" validate:"omitempty,max=3000"`
	Location        *string                 `json:"location,omitempty" validate:"omitempty,max=100"`
	SalaryMin       *int                    `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax       *int                    `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	SalaryCurrency  *string                 `json:"salary_currency,omitempty" validate:"omitempty,len=3"`
	JobType         *models.JobType         `json:"job_type,omitempty" validate:"omitempty,is-job-type"`
	ExperienceLevel *models.ExperienceLevel `json:"experience_level,omitempty" validate:"omitempty,is-experience-level"`
	Skills          *[]string               `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	Benefits        *[]string               `json:"benefits,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
	IsActive        *bool                   `json:"is_active,omitempty"`
	ExpiresAt       *time.Time              `json:"expires_at,omitempty"`
}

type JobSearchQuery struct {
	Search          string                 `form:"search"`
	Location        string                 `form:"location"`
	JobType         models.JobType         `form:"job_type" validate:"omitempty,is-job-type"`
	ExperienceLevel models.ExperienceLevel `form:"experience_level" validate:"omitempty,is-experience-level"`
	CompanyID       string                 `form:"company_id" validate:"omitempty,uuid"`
	MinSalary       *int                   `form:"min_salary" validate:"omitempty,min=0"`
	Page            int                    `form:"page" validate:"omitempty,min=1"`
	PageSize        int                    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type JobListResponse struct {
	Jobs       []models.Job `json:"jobs"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// DeleteReport is returned by cascading deletes. Storage failures are
// listed but never fail the delete itself.
type DeleteReport struct {
	DeletedID          string           `json:"deleted_id"`
	AttachmentsRemoved int              `json:"attachments_removed"`
	CleanupFailures    []CleanupFailure `json:"cleanup_failures,omitempty"`
}

type CleanupFailure struct {
	StorageID string `json:"storage_id"`
	Error     string `json:"error"`
}
