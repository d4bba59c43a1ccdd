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

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationPolicy holds the switchable business rules.
type ApplicationPolicy struct {
	// StrictStatusTransitions limits status updates to the forward path
	// pending -> reviewing -> interviewed -> accepted, with rejected
	// reachable from any open state. Off means any status may follow any.
	StrictStatusTransitions bool
}

type ApplicationService interface {
	Apply(ctx context.Context, db *gorm.DB, applicantID string, req *dto.ApplyRequest, resume, coverLetter *FileInput) (*models.Application, error)
	GetApplication(ctx context.Context, db *gorm.DB, callerID, applicationID string) (*models.Application, error)
	ListMyApplications(ctx context.Context, db *gorm.DB, applicantID string, includeWithdrawn bool) ([]models.Application, error)
	ListJobApplications(ctx context.Context, db *gorm.DB, callerID, jobID string, includeWithdrawn bool) ([]models.Application, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, callerID, applicationID string, req *dto.UpdateStatusRequest) (*models.Application, error)
	Withdraw(ctx context.Context, db *gorm.DB, callerID, applicationID string, req *dto.WithdrawRequest) (*models.Application, error)
}

type ApplicationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	uploads         UploadService
	access          *AccessAuthorizer
	policy          ApplicationPolicy
	now             func() time.Time
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	uploads UploadService,
	policy ApplicationPolicy,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		uploads:         uploads,
		access:          NewAccessAuthorizer(),
		policy:          policy,
		now:             time.Now,
	}
}

// Apply checks, in order: job exists, job open, not applied yet, not the
// poster. Only then is the resume required and are the files validated and
// stored; the record is written last. The unique index settles concurrent
// duplicates.
func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, applicantID string, req *dto.ApplyRequest, resume, coverLetter *FileInput) (*models.Application, error) {
	if !validID(req.JobID) {
		return nil, apperrors.ErrJobNotFound
	}
	job, err := s.jobRepo.FindJobByID(db, req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	now := s.now()
	if !job.AcceptsApplications(now) {
		return nil, apperrors.ErrJobClosed
	}

	exists, err := s.applicationRepo.ExistsForApplicantAndJob(db, applicantID, job.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	if job.PostedByID == applicantID {
		return nil, apperrors.ErrSelfApply
	}

	if resume == nil {
		return nil, apperrors.ErrResumeRequired
	}
	// Validate both before storing either.
	if err := s.uploads.ValidateDocument(CategoryResume, resume); err != nil {
		return nil, err
	}
	if coverLetter != nil {
		if err := s.uploads.ValidateDocument(CategoryCoverLetter, coverLetter); err != nil {
			return nil, err
		}
	}

	var docs models.ApplicationDocuments
	docs.Resume, err = s.uploads.StoreDocument(ctx, CategoryResume, applicantID, resume)
	if err != nil {
		return nil, err
	}
	if coverLetter != nil {
		docs.CoverLetter, err = s.uploads.StoreDocument(ctx, CategoryCoverLetter, applicantID, coverLetter)
		if err != nil {
			s.discard(ctx, docs)
			return nil, err
		}
	}

	app := &models.Application{
		ApplicantID: applicantID,
		JobID:       job.ID,
		Status:      models.ApplicationStatusPending,
		ApplicantInfo: models.ApplicantInfo{
			FullName: strings.TrimSpace(req.FullName),
			Email:    strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:    strings.TrimSpace(req.Phone),
		},
		Documents:       datatypes.NewJSONType(docs),
		CoverLetterText: req.CoverLetterText,
		AdditionalInfo:  req.AdditionalInfo,
		AppliedAt:       now.UTC(),
	}

	if err := s.applicationRepo.CreateApplication(db, app); err != nil {
		s.discard(ctx, docs)
		if errors.Is(err, repositories.ErrApplicationExists) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.DatabaseError(err)
	}

	app.Job = job
	logger.CtxInfo(ctx, "Application submitted",
		"application_id", app.ID,
		"job_id", job.ID,
		"has_cover_letter", docs.CoverLetter != nil,
	)
	return app, nil
}

// discard removes files stored for an application that was never written.
func (s *ApplicationServiceImpl) discard(ctx context.Context, docs models.ApplicationDocuments) {
	report := s.uploads.DeleteAttachments(ctx, docs.All())
	for _, f := range report.Failures {
		logger.CtxWarn(ctx, "Orphaned upload left in storage", "storage_id", f.StorageID, "error", f.Error)
	}
}

func (s *ApplicationServiceImpl) load(db *gorm.DB, applicationID string) (*models.Application, error) {
	if !validID(applicationID) {
		return nil, apperrors.ErrApplicationNotFound
	}
	app, err := s.applicationRepo.FindApplicationByID(db, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return app, nil
}

func (s *ApplicationServiceImpl) GetApplication(ctx context.Context, db *gorm.DB, callerID, applicationID string) (*models.Application, error) {
	app, err := s.load(db, applicationID)
	if err != nil {
		return nil, err
	}
	if !s.access.CanAccess(callerID, app) {
		return nil, apperrors.ErrApplicationAccessDenied
	}
	return app, nil
}

func (s *ApplicationServiceImpl) ListMyApplications(ctx context.Context, db *gorm.DB, applicantID string, includeWithdrawn bool) ([]models.Application, error) {
	apps, err := s.applicationRepo.ListByApplicant(db, applicantID, includeWithdrawn)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return apps, nil
}

func (s *ApplicationServiceImpl) ListJobApplications(ctx context.Context, db *gorm.DB, callerID, jobID string, includeWithdrawn bool) ([]models.Application, error) {
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
	if job.PostedByID != callerID {
		return nil, apperrors.ErrNotJobPoster
	}

	apps, err := s.applicationRepo.ListByJob(db, jobID, includeWithdrawn)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return apps, nil
}

func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, callerID, applicationID string, req *dto.UpdateStatusRequest) (*models.Application, error) {
	if !req.Status.Valid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "unknown application status"})
	}

	app, err := s.load(db, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Job == nil || app.Job.PostedByID != callerID {
		return nil, apperrors.ErrNotJobPoster
	}

	if s.policy.StrictStatusTransitions && app.Status != req.Status && !models.CanTransition(app.Status, req.Status) {
		return nil, apperrors.ErrInvalidStatusTransition.WithDetails(map[string]interface{}{
			"from": app.Status,
			"to":   req.Status,
		})
	}

	now := s.now().UTC()
	change := repositories.StatusChange{
		Status:    req.Status,
		UpdatedBy: callerID,
		UpdatedAt: now,
		Notes:     req.Notes,
	}
	if req.Interview != nil {
		change.Interview = &models.Interview{
			ScheduledAt: req.Interview.ScheduledAt,
			Location:    req.Interview.Location,
			Notes:       req.Interview.Notes,
			Feedback:    req.Interview.Feedback,
		}
	}

	if err := s.applicationRepo.UpdateStatus(db, app.ID, change); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	previous := app.Status
	app.Status = req.Status
	app.StatusUpdatedAt = &now
	app.StatusUpdatedByID = &callerID
	if req.Notes != nil {
		app.RecruiterNotes = *req.Notes
	}
	if change.Interview != nil {
		interview := datatypes.NewJSONType(*change.Interview)
		app.Interview = &interview
	}

	logger.CtxInfo(ctx, "Application status updated",
		"application_id", app.ID,
		"from", previous,
		"to", app.Status,
	)
	return app, nil
}

func (s *ApplicationServiceImpl) Withdraw(ctx context.Context, db *gorm.DB, callerID, applicationID string, req *dto.WithdrawRequest) (*models.Application, error) {
	app, err := s.load(db, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != callerID {
		return nil, apperrors.ErrNotApplicant
	}
	if app.Withdrawn {
		return nil, apperrors.ErrAlreadyWithdrawn
	}
	if !app.CanBeWithdrawn() {
		return nil, apperrors.ErrCannotWithdraw.WithDetails(map[string]interface{}{"status": app.Status})
	}

	reason := ""
	if req != nil {
		reason = strings.TrimSpace(req.Reason)
	}
	now := s.now().UTC()
	if err := s.applicationRepo.MarkWithdrawn(db, app.ID, now, reason); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotWithdrawable) {
			// Lost a race with another withdrawal or a status change.
			return nil, apperrors.ErrCannotWithdraw
		}
		return nil, apperrors.DatabaseError(err)
	}

	app.Withdrawn = true
	app.WithdrawnAt = &now
	app.WithdrawalReason = reason

	logger.CtxInfo(ctx, "Application withdrawn", "application_id", app.ID)
	return app, nil
}
