package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// SignedFileStore is the part of the local storage the file route needs.
type SignedFileStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	VerifySignature(key, expires, signature string) bool
	PublicRead() bool
}

// FileHandler serves objects of the local storage backend. Object stores
// hand out their own URLs and never route through here.
type FileHandler struct {
	*BaseHandler
	store SignedFileStore
}

func NewFileHandler(base *BaseHandler, store SignedFileStore) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		store:       store,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup, g Guards) {
	r.GET("/files/*path", h.Serve)
}

func (h *FileHandler) Serve(c *gin.Context) {
	ctx := c.Request.Context()

	key := strings.TrimPrefix(path.Clean("/"+c.Param("path")), "/")
	if key == "" {
		apperrors.HandleError(c, apperrors.ErrNotFound(nil))
		return
	}

	if !h.store.PublicRead() {
		if !h.store.VerifySignature(key, c.Query("expires"), c.Query("signature")) {
			logger.CtxWarn(ctx, "Rejected unsigned file request", "key", key, "ip", c.ClientIP())
			apperrors.HandleError(c, apperrors.NewForbiddenError("Invalid or expired file signature"))
			return
		}
	}

	body, err := h.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			apperrors.HandleError(c, apperrors.ErrNotFound(err))
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, body); err != nil && ctx.Err() == nil {
		logger.CtxWithError(ctx, "File stream interrupted", err, "key", key)
	}
}
