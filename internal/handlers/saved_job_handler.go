package handlers

import (
	"net/http"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SavedJobHandler struct {
	*BaseHandler
	savedJobService services.SavedJobService
}

func NewSavedJobHandler(base *BaseHandler, savedJobService services.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{
		BaseHandler:     base,
		savedJobService: savedJobService,
	}
}

func (h *SavedJobHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	saved := r.Group("/saved-jobs")
	saved.Use(g.Auth)
	{
		saved.GET("", h.List)
		saved.POST("/:jobId", h.Save)
		saved.DELETE("/:jobId", h.Unsave)
		saved.GET("/:jobId/check", h.Check)
	}
}

func (h *SavedJobHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	saved, err := h.savedJobService.ListSavedJobs(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_jobs": saved, "total": len(saved)})
}

func (h *SavedJobHandler) Save(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	saved, err := h.savedJobService.SaveJob(c.Request.Context(), h.GetDB(c), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *SavedJobHandler) Unsave(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.savedJobService.UnsaveJob(c.Request.Context(), h.GetDB(c), userID, c.Param("jobId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SavedJobHandler) Check(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobID := c.Param("jobId")
	saved, err := h.savedJobService.IsSaved(c.Request.Context(), h.GetDB(c), userID, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SavedJobStatus{JobID: jobID, Saved: saved})
}
