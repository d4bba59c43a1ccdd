package repositories

import (
	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

type SavedJobRepository interface {
	CreateSavedJob(db *gorm.DB, saved *models.SavedJob) error
	DeleteSavedJob(db *gorm.DB, userID, jobID string) error
	ListSavedJobs(db *gorm.DB, userID string) ([]models.SavedJob, error)
	IsSaved(db *gorm.DB, userID, jobID string) (bool, error)
}

type SavedJobRepositoryImpl struct{}

func NewSavedJobRepository() SavedJobRepository {
	return &SavedJobRepositoryImpl{}
}

func (r *SavedJobRepositoryImpl) CreateSavedJob(db *gorm.DB, saved *models.SavedJob) error {
	if err := db.Omit("Job").Create(saved).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrSavedJobExists
		}
		return err
	}
	return nil
}

func (r *SavedJobRepositoryImpl) DeleteSavedJob(db *gorm.DB, userID, jobID string) error {
	result := db.Where("user_id = ? AND job_id = ?", userID, jobID).Delete(&models.SavedJob{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSavedJobNotFound
	}
	return nil
}

func (r *SavedJobRepositoryImpl) ListSavedJobs(db *gorm.DB, userID string) ([]models.SavedJob, error) {
	var saved []models.SavedJob
	err := db.Preload("Job").Preload("Job.Company").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

func (r *SavedJobRepositoryImpl) IsSaved(db *gorm.DB, userID, jobID string) (bool, error) {
	var count int64
	err := db.Model(&models.SavedJob{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	return count > 0, err
}
