package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(ctx context.Context, db *gorm.DB, posterID string, req *dto.CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error)
	SearchJobs(ctx context.Context, db *gorm.DB, query *dto.JobSearchQuery) (*dto.JobListResponse, error)
	ListMyJobs(ctx context.Context, db *gorm.DB, posterID string) ([]models.Job, error)
	UpdateJob(ctx context.Context, db *gorm.DB, posterID, jobID string, req *dto.UpdateJobRequest) (*models.Job, error)
	// DeleteJob removes the job with its applications and saved entries,
	// then cleans up the application documents.
	DeleteJob(ctx context.Context, db *gorm.DB, posterID, jobID string) (*dto.DeleteReport, error)
}

type JobServiceImpl struct {
	jobRepo     repositories.JobRepository
	companyRepo repositories.CompanyRepository
	uploads     UploadService
	now         func() time.Time
}

func NewJobService(
	jobRepo repositories.JobRepository,
	companyRepo repositories.CompanyRepository,
	uploads UploadService,
) JobService {
	return &JobServiceImpl{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		uploads:     uploads,
		now:         time.Now,
	}
}

func (s *JobServiceImpl) CreateJob(ctx context.Context, db *gorm.DB, posterID string, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := checkSalaryRange(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}

	if !validID(req.CompanyID) {
		return nil, apperrors.ErrCompanyNotFound
	}
	company, err := s.companyRepo.FindCompanyByID(db, req.CompanyID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if company.OwnerID != posterID {
		return nil, apperrors.ErrNotCompanyOwner
	}

	now := s.now()
	expiresAt := now.Add(models.DefaultJobLifetime)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return nil, apperrors.ValidationError(map[string]string{"expires_at": "must be in the future"})
		}
		expiresAt = *req.ExpiresAt
	}

	currency := strings.ToUpper(req.SalaryCurrency)
	if currency == "" {
		currency = "USD"
	}

	job := &models.Job{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Requirements:    req.Requirements,
		Location:        strings.TrimSpace(req.Location),
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		SalaryCurrency:  currency,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          pq.StringArray(req.Skills),
		Benefits:        pq.StringArray(req.Benefits),
		CompanyID:       company.ID,
		PostedByID:      posterID,
		IsActive:        true,
		ExpiresAt:       expiresAt.UTC(),
	}
	if err := s.jobRepo.CreateJob(db, job); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	job.Company = company

	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "company_id", company.ID)
	return job, nil
}

func (s *JobServiceImpl) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error) {
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
	return job, nil
}

func (s *JobServiceImpl) SearchJobs(ctx context.Context, db *gorm.DB, query *dto.JobSearchQuery) (*dto.JobListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	filter := repositories.JobFilter{
		Search:          strings.TrimSpace(query.Search),
		Location:        strings.TrimSpace(query.Location),
		JobType:         query.JobType,
		ExperienceLevel: query.ExperienceLevel,
		CompanyID:       query.CompanyID,
		MinSalary:       query.MinSalary,
		Now:             s.now(),
		Pagination:      repositories.Pagination{Page: page, PageSize: pageSize},
	}

	jobs, total, err := s.jobRepo.SearchJobs(db, filter)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.JobListResponse{
		Jobs:       jobs,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *JobServiceImpl) ListMyJobs(ctx context.Context, db *gorm.DB, posterID string) ([]models.Job, error) {
	jobs, err := s.jobRepo.FindJobsByPoster(db, posterID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return jobs, nil
}

func (s *JobServiceImpl) ownedJob(db *gorm.DB, posterID, jobID string) (*models.Job, error) {
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
	if job.PostedByID != posterID {
		return nil, apperrors.ErrNotJobPoster
	}
	return job, nil
}

func (s *JobServiceImpl) UpdateJob(ctx context.Context, db *gorm.DB, posterID, jobID string, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, err := s.ownedJob(db, posterID, jobID)
	if err != nil {
		return nil, err
	}

	salaryMin, salaryMax := job.SalaryMin, job.SalaryMax
	if req.SalaryMin != nil {
		salaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		salaryMax = req.SalaryMax
	}
	if err := checkSalaryRange(salaryMin, salaryMax); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.SalaryMin != nil {
		updates["salary_min"] = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		updates["salary_max"] = *req.SalaryMax
	}
	if req.SalaryCurrency != nil {
		updates["salary_currency"] = strings.ToUpper(*req.SalaryCurrency)
	}
	if req.JobType != nil {
		updates["job_type"] = *req.JobType
	}
	if req.ExperienceLevel != nil {
		updates["experience_level"] = *req.ExperienceLevel
	}
	if req.Skills != nil {
		updates["skills"] = pq.StringArray(*req.Skills)
	}
	if req.Benefits != nil {
		updates["benefits"] = pq.StringArray(*req.Benefits)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = req.ExpiresAt.UTC()
	}

	if len(updates) == 0 {
		return job, nil
	}
	if err := s.jobRepo.UpdateJob(db, job.ID, updates); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	return s.GetJob(ctx, db, job.ID)
}

func (s *JobServiceImpl) DeleteJob(ctx context.Context, db *gorm.DB, posterID, jobID string) (*dto.DeleteReport, error) {
	job, err := s.ownedJob(db, posterID, jobID)
	if err != nil {
		return nil, err
	}

	removed, err := s.jobRepo.DeleteJobCascade(db, job.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	// Files go only after the rows are committed.
	report := s.uploads.DeleteAttachments(ctx, flattenDocuments(removed.Documents))
	logger.CtxInfo(ctx, "Job deleted",
		"job_id", job.ID,
		"attachments_removed", report.Deleted,
		"cleanup_failures", len(report.Failures),
	)
	return &dto.DeleteReport{
		DeletedID:          job.ID,
		AttachmentsRemoved: report.Deleted,
		CleanupFailures:    report.Failures,
	}, nil
}

func checkSalaryRange(salaryMin, salaryMax *int) error {
	if salaryMin != nil && salaryMax != nil && *salaryMin > *salaryMax {
		return apperrors.ValidationError(map[string]string{"salary_max": "must be greater than or equal to salary_min"})
	}
	return nil
}
