package services

import (
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/imageprocessor"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/storage"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService        AuthService
	CompanyService     CompanyService
	JobService         JobService
	ApplicationService ApplicationService
	DocumentService    DocumentService
	SavedJobService    SavedJobService
	UploadService      UploadService
}

// Dependencies is what NewServiceContainer needs from the outside.
type Dependencies struct {
	Storage     storage.Storage
	Tokens      *auth.TokenManager
	UploadRules UploadRules
	Images      *imageprocessor.Processor
	Delivery    DeliveryConfig
	Policy      ApplicationPolicy
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	companyRepo := repositories.NewCompanyRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()
	savedJobRepo := repositories.NewSavedJobRepository()

	uploads := NewUploadService(deps.Storage, NewUploadValidator(deps.UploadRules), deps.Images)

	return &ServiceContainer{
		AuthService:        NewAuthService(userRepo, deps.Tokens, uploads),
		CompanyService:     NewCompanyService(companyRepo, uploads),
		JobService:         NewJobService(jobRepo, companyRepo, uploads),
		ApplicationService: NewApplicationService(applicationRepo, jobRepo, uploads, deps.Policy),
		DocumentService:    NewDocumentService(applicationRepo, deps.Storage, deps.Delivery),
		SavedJobService:    NewSavedJobService(savedJobRepo, jobRepo),
		UploadService:      uploads,
	}
}
