package services

import (
	"context"
	"errors"
	"strings"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CompanyService interface {
	CreateCompany(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreateCompanyRequest) (*models.Company, error)
	GetCompany(ctx context.Context, db *gorm.DB, companyID string) (*models.Company, error)
	ListCompanies(ctx context.Context, db *gorm.DB, query *dto.CompanySearchQuery) (*dto.CompanyListResponse, error)
	ListMyCompanies(ctx context.Context, db *gorm.DB, ownerID string) ([]models.Company, error)
	UpdateCompany(ctx context.Context, db *gorm.DB, ownerID, companyID string, req *dto.UpdateCompanyRequest) (*models.Company, error)
	// DeleteCompany removes the company, its jobs and their applications,
	// then cleans up the application documents.
	DeleteCompany(ctx context.Context, db *gorm.DB, ownerID, companyID string) (*dto.DeleteReport, error)
}

type CompanyServiceImpl struct {
	companyRepo repositories.CompanyRepository
	uploads     UploadService
}

func NewCompanyService(companyRepo repositories.CompanyRepository, uploads UploadService) CompanyService {
	return &CompanyServiceImpl{
		companyRepo: companyRepo,
		uploads:     uploads,
	}
}

// ensureNameFree is advisory. The unique index on lower(name) decides
// when two requests race.
func (s *CompanyServiceImpl) ensureNameFree(db *gorm.DB, name, exceptID string) error {
	existing, err := s.companyRepo.FindCompanyByName(db, name)
	if err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return nil
		}
		return apperrors.DatabaseError(err)
	}
	if existing.ID != exceptID {
		return apperrors.ErrCompanyNameTaken
	}
	return nil
}

func (s *CompanyServiceImpl) CreateCompany(ctx context.Context, db *gorm.DB, ownerID string, req *dto.CreateCompanyRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(db, name, ""); err != nil {
		return nil, err
	}

	company := &models.Company{
		Name:        name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		LogoURL:     req.LogoURL,
		Industry:    req.Industry,
		Size:        req.Size,
		Founded:     req.Founded,
		OwnerID:     ownerID,
	}
	if err := s.companyRepo.CreateCompany(db, company); err != nil {
		if errors.Is(err, repositories.ErrCompanyNameTaken) {
			return nil, apperrors.ErrCompanyNameTaken
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Company created", "company_id", company.ID)
	return company, nil
}

func (s *CompanyServiceImpl) GetCompany(ctx context.Context, db *gorm.DB, companyID string) (*models.Company, error) {
	if !validID(companyID) {
		return nil, apperrors.ErrCompanyNotFound
	}
	company, err := s.companyRepo.FindCompanyByID(db, companyID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return company, nil
}

func (s *CompanyServiceImpl) ListCompanies(ctx context.Context, db *gorm.DB, query *dto.CompanySearchQuery) (*dto.CompanyListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	companies, total, err := s.companyRepo.ListCompanies(db, repositories.CompanyFilter{
		Search:     strings.TrimSpace(query.Search),
		Industry:   strings.TrimSpace(query.Industry),
		Pagination: repositories.Pagination{Page: page, PageSize: pageSize},
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.CompanyListResponse{
		Companies:  companies,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func (s *CompanyServiceImpl) ListMyCompanies(ctx context.Context, db *gorm.DB, ownerID string) ([]models.Company, error) {
	companies, err := s.companyRepo.FindCompaniesByOwner(db, ownerID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return companies, nil
}

func (s *CompanyServiceImpl) ownedCompany(ctx context.Context, db *gorm.DB, ownerID, companyID string) (*models.Company, error) {
	company, err := s.GetCompany(ctx, db, companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != ownerID {
		return nil, apperrors.ErrNotCompanyOwner
	}
	return company, nil
}

func (s *CompanyServiceImpl) UpdateCompany(ctx context.Context, db *gorm.DB, ownerID, companyID string, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.ownedCompany(ctx, db, ownerID, companyID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, company.Name) {
			if err := s.ensureNameFree(db, name, company.ID); err != nil {
				return nil, err
			}
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.Size != nil {
		updates["size"] = *req.Size
	}
	if req.Founded != nil {
		updates["founded"] = *req.Founded
	}

	if len(updates) == 0 {
		return company, nil
	}
	if err := s.companyRepo.UpdateCompany(db, company.ID, updates); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCompanyNameTaken):
			return nil, apperrors.ErrCompanyNameTaken
		case errors.Is(err, repositories.ErrCompanyNotFound):
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	return s.GetCompany(ctx, db, company.ID)
}

func (s *CompanyServiceImpl) DeleteCompany(ctx context.Context, db *gorm.DB, ownerID, companyID string) (*dto.DeleteReport, error) {
	company, err := s.ownedCompany(ctx, db, ownerID, companyID)
	if err != nil {
		return nil, err
	}

	removed, err := s.companyRepo.DeleteCompanyCascade(db, company.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	// Files go only after the rows are committed.
	report := s.uploads.DeleteAttachments(ctx, flattenDocuments(removed.Documents))
	logger.CtxInfo(ctx, "Company deleted",
		"company_id", company.ID,
		"jobs", removed.Jobs,
		"attachments_removed", report.Deleted,
		"cleanup_failures", len(report.Failures),
	)
	return &dto.DeleteReport{
		DeletedID:          company.ID,
		AttachmentsRemoved: report.Deleted,
		CleanupFailures:    report.Failures,
	}, nil
}
