package services

import (
	"context"
	"errors"

	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SavedJobService interface {
	SaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*models.SavedJob, error)
	UnsaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) error
	ListSavedJobs(ctx context.Context, db *gorm.DB, userID string) ([]models.SavedJob, error)
	IsSaved(ctx context.Context, db *gorm.DB, userID, jobID string) (bool, error)
}

type SavedJobServiceImpl struct {
	savedJobRepo repositories.SavedJobRepository
	jobRepo      repositories.JobRepository
}

func NewSavedJobService(savedJobRepo repositories.SavedJobRepository, jobRepo repositories.JobRepository) SavedJobService {
	return &SavedJobServiceImpl{
		savedJobRepo: savedJobRepo,
		jobRepo:      jobRepo,
	}
}

func (s *SavedJobServiceImpl) SaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*models.SavedJob, error) {
	if !validID(jobID) {
		return nil, apperrors.ErrJobNotFound
	}
	job, err := s.jobRepo.FindJobByID(db, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	saved := &models.SavedJob{UserID: userID, JobID: job.ID}
	if err := s.savedJobRepo.CreateSavedJob(db, saved); err != nil {
		if errors.Is(err, repositories.ErrSavedJobExists) {
			return nil, apperrors.ErrJobAlreadySaved
		}
		return nil, apperrors.DatabaseError(err)
	}
	saved.Job = job
	return saved, nil
}

func (s *SavedJobServiceImpl) UnsaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) error {
	if !validID(jobID) {
		return apperrors.ErrSavedJobNotFound
	}
	if err := s.savedJobRepo.DeleteSavedJob(db, userID, jobID); err != nil {
		if errors.Is(err, repositories.ErrSavedJobNotFound) {
			return apperrors.ErrSavedJobNotFound
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *SavedJobServiceImpl) ListSavedJobs(ctx context.Context, db *gorm.DB, userID string) ([]models.SavedJob, error) {
	saved, err := s.savedJobRepo.ListSavedJobs(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return saved, nil
}

func (s *SavedJobServiceImpl) IsSaved(ctx context.Context, db *gorm.DB, userID, jobID string) (bool, error) {
	if !validID(jobID) {
		return false, nil
	}
	saved, err := s.savedJobRepo.IsSaved(db, userID, jobID)
	if err != nil {
		return false, apperrors.DatabaseError(err)
	}
	return saved, nil
}
