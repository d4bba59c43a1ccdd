package dto

import (
	"time"

	"jobportal_backend/internal/models"
)

// ApplyRequest is the text part of the multipart apply form. The files
// travel separately.
type ApplyRequest struct {
	JobID           string `form:"jobId" json:"job_id" validate:"required"`
	FullName        string `form:"fullName" json:"full_name" validate:"required,min=2,max=100"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Phone           string `form:"phone" json:"phone,omitempty" validate:"omitempty,max=20"`
	CoverLetterText string `form:"coverLetterText" json:"cover_letter_text,omitempty" validate:"omitempty,max=2000"`
	AdditionalInfo  string `form:"additionalInfo" json:"additional_info,omitempty" validate:"omitempty,max=1000"`
}

type InterviewRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=200"`
	Notes       string     `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Feedback    string     `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status    models.ApplicationStatus `json:"status" validate:"required,is-application-status"`
	Notes     *string                  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Interview *InterviewRequest        `json:"interview,omitempty"`
}

type WithdrawRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type ListApplicationsQuery struct {
	Mine             bool   `form:"mine"`
	JobID            string `form:"job"`
	IncludeWithdrawn bool   `form:"include_withdrawn"`
}

// DocumentMetadata is the JSON delivery mode.
type DocumentMetadata struct {
	Kind              models.DocumentKind `json:"kind"`
	DownloadURL       string              `json:"download_url"`
	SignedURL         string              `json:"signed_url,omitempty"`
	RequiresSignedURL bool                `json:"requires_signed_url"`
	Filename          string              `json:"filename"`
	FileSize          int64               `json:"file_size"`
	ContentType       string              `json:"content_type"`
	UploadedAt        time.Time           `json:"uploaded_at"`
}

type DocumentSlot struct {
	Kind       models.DocumentKind          `json:"kind"`
	Present    bool                         `json:"present"`
	Descriptor *models.AttachmentDescriptor `json:"descriptor,omitempty"`
}

type DocumentInventory struct {
	ApplicationID string         `json:"application_id"`
	Documents     []DocumentSlot `json:"documents"`
}
