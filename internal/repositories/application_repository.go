package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusChange is everything a recruiter status update writes.
// Nil Notes/Interview leave the stored values alone.
type StatusChange struct {
	Status    models.ApplicationStatus
	UpdatedBy string
	UpdatedAt time.Time
	Notes     *string
	Interview *models.Interview
}

type ApplicationRepository interface {
	// CreateApplication returns ErrApplicationExists when the
	// (applicant, job) unique index rejects the row.
	CreateApplication(db *gorm.DB, app *models.Application) error
	// FindApplicationByID preloads Job (with its company).
	FindApplicationByID(db *gorm.DB, id string) (*models.Application, error)
	ExistsForApplicantAndJob(db *gorm.DB, applicantID, jobID string) (bool, error)
	ListByApplicant(db *gorm.DB, applicantID string, includeWithdrawn bool) ([]models.Application, error)
	ListByJob(db *gorm.DB, jobID string, includeWithdrawn bool) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, change StatusChange) error
	// MarkWithdrawn only touches rows that are still withdrawable, so two
	// racing withdrawals cannot both succeed.
	MarkWithdrawn(db *gorm.DB, id string, at time.Time, reason string) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) CreateApplication(db *gorm.DB, app *models.Application) error {
	if err := db.Omit("Job", "Applicant").Create(app).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindApplicationByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	err := db.Preload("Job").Preload("Job.Company").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ExistsForApplicantAndJob(db *gorm.DB, applicantID, jobID string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) ListByApplicant(db *gorm.DB, applicantID string, includeWithdrawn bool) ([]models.Application, error) {
	query := db.Preload("Job").Preload("Job.Company").Where("applicant_id = ?", applicantID)
	if !includeWithdrawn {
		query = query.Where("withdrawn = ?", false)
	}

	var apps []models.Application
	err := query.Order("applied_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListByJob(db *gorm.DB, jobID string, includeWithdrawn bool) ([]models.Application, error) {
	query := db.Preload("Applicant").Where("job_id = ?", jobID)
	if !includeWithdrawn {
		query = query.Where("withdrawn = ?", false)
	}

	var apps []models.Application
	err := query.Order("applied_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, change StatusChange) error {
	updates := map[string]interface{}{
		"status":               change.Status,
		"status_updated_at":    change.UpdatedAt,
		"status_updated_by_id": change.UpdatedBy,
	}
	if change.Notes != nil {
		updates["recruiter_notes"] = *change.Notes
	}
	if change.Interview != nil {
		updates["interview"] = datatypes.NewJSONType(*change.Interview)
	}

	result := db.Model(&models.Application{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) MarkWithdrawn(db *gorm.DB, id string, at time.Time, reason string) error {
	result := db.Model(&models.Application{}).
		Where("id = ? AND withdrawn = ? AND status IN ?", id, false,
			[]models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusReviewing}).
		Updates(map[string]interface{}{
			"withdrawn":         true,
			"withdrawn_at":      at,
			"withdrawal_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotWithdrawable
	}
	return nil
}

// deleteApplicationsReturningDocuments deletes the matching applications and
// returns the attachment slots of exactly the rows it removed.
func deleteApplicationsReturningDocuments(tx *gorm.DB, query string, args ...interface{}) ([]models.ApplicationDocuments, error) {
	var removed []models.Application
	err := tx.Clauses(clause.Returning{Columns: []clause.Column{{Name: "documents"}}}).
		Where(query, args...).
		Delete(&removed).Error
	if err != nil {
		return nil, err
	}

	docs := make([]models.ApplicationDocuments, 0, len(removed))
	for _, app := range removed {
		docs = append(docs, app.Docs())
	}
	return docs, nil
}
