package models

type SavedJob struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_saved_jobs_user_job,priority:1" json:"user_id"`
	JobID  string `gorm:"type:uuid;not null;uniqueIndex:idx_saved_jobs_user_job,priority:2;index" json:"job_id"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
