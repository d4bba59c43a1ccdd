package repositories

import (
	"errors"
	"strings"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

type CompanyFilter struct {
	Search   string
	Industry string
	Pagination
}

type CompanyRepository interface {
	CreateCompany(db *gorm.DB, company *models.Company) error
	FindCompanyByID(db *gorm.DB, id string) (*models.Company, error)
	// FindCompanyByName matches case-insensitively.
	FindCompanyByName(db *gorm.DB, name string) (*models.Company, error)
	FindCompaniesByOwner(db *gorm.DB, ownerID string) ([]models.Company, error)
	ListCompanies(db *gorm.DB, filter CompanyFilter) ([]models.Company, int64, error)
	UpdateCompany(db *gorm.DB, id string, updates map[string]interface{}) error
	// DeleteCompanyCascade removes the company, its jobs and everything that
	// hangs off those jobs in one transaction.
	DeleteCompanyCascade(db *gorm.DB, id string) (*CascadeResult, error)
}

type CompanyRepositoryImpl struct{}

func NewCompanyRepository() CompanyRepository {
	return &CompanyRepositoryImpl{}
}

func (r *CompanyRepositoryImpl) CreateCompany(db *gorm.DB, company *models.Company) error {
	if err := db.Create(company).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrCompanyNameTaken
		}
		return err
	}
	return nil
}

func (r *CompanyRepositoryImpl) FindCompanyByID(db *gorm.DB, id string) (*models.Company, error) {
	var company models.Company
	if err := db.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindCompanyByName(db *gorm.DB, name string) (*models.Company, error) {
	var company models.Company
	err := db.Where("lower(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindCompaniesByOwner(db *gorm.DB, ownerID string) ([]models.Company, error) {
	var companies []models.Company
	err := db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepositoryImpl) ListCompanies(db *gorm.DB, filter CompanyFilter) ([]models.Company, int64, error) {
	query := db.Model(&models.Company{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.Industry != "" {
		query = query.Where("industry ILIKE ?", "%"+filter.Industry+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []models.Company
	err := query.Order("created_at DESC").
		Offset(filter.offset()).
		Limit(filter.limit()).
		Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepositoryImpl) UpdateCompany(db *gorm.DB, id string, updates map[string]interface{}) error {
	result := db.Model(&models.Company{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return ErrCompanyNameTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepositoryImpl) DeleteCompanyCascade(db *gorm.DB, id string) (*CascadeResult, error) {
	var out CascadeResult
	err := db.Transaction(func(tx *gorm.DB) error {
		jobIDs := tx.Model(&models.Job{}).Select("id").Where("company_id = ?", id)

		docs, err := deleteApplicationsReturningDocuments(tx, "job_id IN (?)", jobIDs)
		if err != nil {
			return err
		}
		if err := tx.Where("job_id IN (?)", jobIDs).Delete(&models.SavedJob{}).Error; err != nil {
			return err
		}
		jobs := tx.Where("company_id = ?", id).Delete(&models.Job{})
		if jobs.Error != nil {
			return jobs.Error
		}

		result := tx.Where("id = ?", id).Delete(&models.Company{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCompanyNotFound
		}
		out = CascadeResult{Jobs: jobs.RowsAffected, Documents: docs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
