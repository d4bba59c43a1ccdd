package handlers

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ============================================
// DOCUMENT HANDLER
// ============================================

// DocumentHandler serves application documents in three modes: JSON
// metadata, redirect to the (signed) storage URL, and server side proxy.
type DocumentHandler struct {
	*BaseHandler
	documentService services.DocumentService
}

func NewDocumentHandler(base *BaseHandler, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		documentService: documentService,
	}
}

func (h *DocumentHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	docs := r.Group("/applications/:id")
	docs.Use(g.Auth)
	{
		docs.GET("/documents", h.Inventory)
		docs.GET("/document/:kind", h.Metadata)
		docs.GET("/document/:kind/view", h.Redirect)
		docs.GET("/document/:kind/proxy", h.Proxy)
	}
}

func (h *DocumentHandler) kind(c *gin.Context) (models.DocumentKind, bool) {
	kind, ok := models.ParseDocumentKind(c.Param("kind"))
	if !ok {
		apperrors.HandleError(c, apperrors.ErrUnknownDocumentKind)
		return "", false
	}
	return kind, true
}

func (h *DocumentHandler) Metadata(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	meta, err := h.documentService.GetMetadata(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), kind)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// Redirect - 302 to the storage URL
func (h *DocumentHandler) Redirect(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	url, desc, err := h.documentService.ResolveRedirect(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), kind)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	setDocumentHeaders(c, desc, ParseQueryBool(c, "download"))
	c.Header("Cache-Control", "private, no-store")
	c.Redirect(http.StatusFound, url)
}

// Proxy - streams the bytes through this server
func (h *DocumentHandler) Proxy(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	stream, err := h.documentService.OpenStream(ctx, h.GetDB(c), userID, c.Param("id"), kind)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer stream.Body.Close()

	setDocumentHeaders(c, &stream.Descriptor, ParseQueryBool(c, "download"))
	c.Header("Cache-Control", "private, no-store")
	if stream.ContentLength > 0 {
		c.Header("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}
	c.Status(http.StatusOK)

	written, err := io.Copy(c.Writer, stream.Body)
	if err != nil {
		// Headers are out; all that is left is to stop and log.
		if ctx.Err() != nil {
			logger.CtxInfo(ctx, "Document proxy aborted by client", "written", written)
			return
		}
		logger.CtxWithError(ctx, "Document proxy interrupted", err, "written", written)
	}
}

func (h *DocumentHandler) Inventory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	inv, err := h.documentService.Inventory(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// setDocumentHeaders: attachment when download was asked for, inline
// otherwise. The filename is encoded by mime so quotes and non-ASCII
// names survive.
func setDocumentHeaders(c *gin.Context, desc *models.AttachmentDescriptor, download bool) {
	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	if desc.OriginalFilename != "" {
		if v := mime.FormatMediaType(disposition, map[string]string{"filename": desc.OriginalFilename}); v != "" {
			disposition = v
		}
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Content-Type", services.ContentTypeOrDefault(desc))
	c.Header("X-Content-Type-Options", "nosniff")
}
