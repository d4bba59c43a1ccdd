package dto

import (
	"jobportal_backend/internal/models"
)

type CreateCompanyRequest struct {
	Name        string             `json:"name" validate:"required,min=2,max=100"`
	Description string             `json:"description,omitempty" validate:"omitempty,max=1000"`
	Website     string             `json:"website,omitempty" validate:"omitempty,url"`
	Location    string             `json:"location,omitempty" validate:"omitempty,max=100"`
	LogoURL     string             `json:"logo_url,omitempty" validate:"omitempty,url"`
	Industry    string             `json:"industry,omitempty" validate:"omitempty,max=100"`
	Size        models.CompanySize `json:"size,omitempty" validate:"omitempty,is-company-size"`
	Founded     *int               `json:"founded,omitempty" validate:"omitempty,min=1800,max=2100"`
}

type UpdateCompanyRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=1000"`
	Website     *string             `json:"website,omitempty" validate:"omitempty,url"`
	Location    *string             `json:"location,omitempty" validate:"omitempty,max=100"`
	LogoURL     *string             `json:"logo_url,omitempty" validate:"omitempty,url"`
	Industry    *string             `json:"industry,omitempty" validate:"omitempty,max=100"`
	Size        *models.CompanySize `json:"size,omitempty" validate:"omitempty,is-company-size"`
	Founded     *int                `json:"founded,omitempty" validate:"omitempty,min=1800,max=2100"`
}

type CompanySearchQuery struct {
	Search   string `form:"search"`
	Industry string `form:"industry"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type CompanyListResponse struct {
	Companies  []models.Company `json:"companies"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}
