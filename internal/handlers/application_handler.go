package handlers

import (
	"errors"
	"net/http"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ============================================
// APPLICATION HANDLER
// ============================================

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
	// maxBody caps the whole multipart request: two documents plus form
	// fields.
	maxBody int64
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService, documentMaxSize int64) *ApplicationHandler {
	if documentMaxSize <= 0 {
		documentMaxSize = services.DefaultDocumentMaxSize
	}
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		maxBody:            2*documentMaxSize + 1<<20,
	}
}

// ============================================
// ROUTES
// ============================================

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	applications := r.Group("/applications")
	applications.Use(g.Auth)
	{
		applications.POST("/apply", g.Candidate, g.ApplyRate, h.Apply)
		applications.GET("", h.List)
		applications.GET("/my-applications", g.Candidate, h.ListMine)
		applications.GET("/job/:jobId", g.Recruiter, h.ListForJob)
		applications.GET("/:id", h.GetApplication)
		applications.PATCH("/:id/status", g.Recruiter, h.UpdateStatus)
		applications.PATCH("/:id/withdraw", g.Candidate, h.Withdraw)
	}
}

// ============================================
// HANDLERS
// ============================================

// Apply - multipart submission with resume and optional cover letter
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if c.Request.ContentLength > h.maxBody {
		apperrors.HandleError(c, apperrors.ErrPayloadTooLarge("request", c.Request.ContentLength, h.maxBody))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	var req dto.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperrors.HandleError(c, apperrors.ErrPayloadTooLarge("request", h.maxBody+1, h.maxBody))
			return
		}
		logger.CtxWithError(c.Request.Context(), "Failed to bind apply form", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid application form: "+err.Error()))
		return
	}
	if !h.validate(c, &req, "form") {
		return
	}

	resume, closeResume, err := FormFile(c, "resume")
	defer closeResume()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	coverLetter, closeCover, err := FormFile(c, "coverLetter")
	defer closeCover()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), userID, &req, resume, coverLetter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": app,
	})
}

// List - ?mine=true or ?job=<id>, with include_withdrawn
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.ListApplicationsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	switch {
	case query.JobID != "":
		h.respondJobApplications(c, userID, query.JobID, query.IncludeWithdrawn)
	case query.Mine:
		h.respondMyApplications(c, userID, query.IncludeWithdrawn)
	default:
		apperrors.HandleError(c, apperrors.NewBadRequestError("Either mine=true or job=<id> is required"))
	}
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	h.respondMyApplications(c, userID, ParseQueryBool(c, "include_withdrawn"))
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	h.respondJobApplications(c, userID, c.Param("jobId"), ParseQueryBool(c, "include_withdrawn"))
}

func (h *ApplicationHandler) respondMyApplications(c *gin.Context, userID string, includeWithdrawn bool) {
	apps, err := h.applicationService.ListMyApplications(c.Request.Context(), h.GetDB(c), userID, includeWithdrawn)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) respondJobApplications(c *gin.Context, userID, jobID string, includeWithdrawn bool) {
	apps, err := h.applicationService.ListJobApplications(c.Request.Context(), h.GetDB(c), userID, jobID, includeWithdrawn)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	app, err := h.applicationService.GetApplication(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateStatus - job poster only
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Application status updated",
		"application": app,
	})
}

// Withdraw - applicant only; the body is optional
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if c.Request.ContentLength > 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	app, err := h.applicationService.Withdraw(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Application withdrawn",
		"application": app,
	})
}
