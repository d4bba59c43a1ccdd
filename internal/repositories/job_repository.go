package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

// JobFilter drives the public job search. Only active, unexpired jobs are
// returned; Now is the reference time for expiry.
type JobFilter struct {
	Search          string
	Location        string
	JobType         models.JobType
	ExperienceLevel models.ExperienceLevel
	CompanyID       string
	MinSalary       *int
	Now             time.Time
	Pagination
}

// CascadeResult reports what a cascading delete removed. Documents are the
// attachment slots of the deleted applications, read inside the delete
// transaction.
type CascadeResult struct {
	Jobs      int64
	Documents []models.ApplicationDocuments
}

type JobRepository interface {
	CreateJob(db *gorm.DB, job *models.Job) error
	// FindJobByID preloads the company.
	FindJobByID(db *gorm.DB, id string) (*models.Job, error)
	SearchJobs(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	FindJobsByPoster(db *gorm.DB, posterID string) ([]models.Job, error)
	UpdateJob(db *gorm.DB, id string, updates map[string]interface{}) error
	// DeleteJobCascade removes the job with its applications and saved
	// entries in one transaction. Stored files are the caller's concern.
	DeleteJobCascade(db *gorm.DB, id string) (*CascadeResult, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) CreateJob(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindJobByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Preload("Company").First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) SearchJobs(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	query := db.Model(&models.Job{}).
		Where("is_active = ? AND expires_at > ?", true, now)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR requirements ILIKE ?", like, like, like)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.CompanyID != "" {
		query = query.Where("company_id = ?", filter.CompanyID)
	}
	if filter.MinSalary != nil {
		query = query.Where("salary_max IS NULL OR salary_max >= ?", *filter.MinSalary)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := query.Preload("Company").
		Order("created_at DESC").
		Offset(filter.offset()).
		Limit(filter.limit()).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) FindJobsByPoster(db *gorm.DB, posterID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Preload("Company").
		Where("posted_by_id = ?", posterID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) UpdateJob(db *gorm.DB, id string, updates map[string]interface{}) error {
	result := db.Model(&models.Job{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) DeleteJobCascade(db *gorm.DB, id string) (*CascadeResult, error) {
	var out CascadeResult
	err := db.Transaction(func(tx *gorm.DB) error {
		docs, err := deleteApplicationsReturningDocuments(tx, "job_id = ?", id)
		if err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Job{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		out = CascadeResult{Jobs: result.RowsAffected, Documents: docs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
