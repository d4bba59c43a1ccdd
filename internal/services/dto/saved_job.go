package dto

type SavedJobStatus struct {
	JobID string `json:"job_id"`
	Saved bool   `json:"saved"`
}
