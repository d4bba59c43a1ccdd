package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"jobportal_backend/internal/imageprocessor"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// FileInput is one uploaded file as the handler received it.
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadService interface {
	// ValidateDocument runs the pure checks without touching storage.
	ValidateDocument(category UploadCategory, file *FileInput) error
	// StoreDocument validates and writes a resume or cover letter.
	StoreDocument(ctx context.Context, category UploadCategory, ownerID string, file *FileInput) (*models.AttachmentDescriptor, error)
	// StoreAvatar validates, crops to a square JPEG and writes it.
	StoreAvatar(ctx context.Context, ownerID string, file *FileInput) (*models.AttachmentDescriptor, error)
	DeleteAttachment(ctx context.Context, desc models.AttachmentDescriptor) error
	// DeleteAttachments removes every descriptor independently.
	DeleteAttachments(ctx context.Context, descs []models.AttachmentDescriptor) CleanupReport
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	RequiresSignedURL() bool
}

type UploadServiceImpl struct {
	storage   storage.Storage
	validator *UploadValidator
	images    *imageprocessor.Processor
	cleaner   *AttachmentCleaner
	now       func() time.Time
}

func NewUploadService(store storage.Storage, validator *UploadValidator, images *imageprocessor.Processor) UploadService {
	return &UploadServiceImpl{
		storage:   store,
		validator: validator,
		images:    images,
		cleaner:   NewAttachmentCleaner(store, defaultCleanupConcurrency),
		now:       time.Now,
	}
}

func (s *UploadServiceImpl) RequiresSignedURL() bool {
	return s.storage.RequiresSignedURL()
}

func (s *UploadServiceImpl) ValidateDocument(category UploadCategory, file *FileInput) error {
	if file == nil {
		return apperrors.NewBadRequestError(string(category) + " file is missing")
	}
	return s.validator.Validate(category, file.Size, file.ContentType)
}

func (s *UploadServiceImpl) StoreDocument(ctx context.Context, category UploadCategory, ownerID string, file *FileInput) (*models.AttachmentDescriptor, error) {
	if err := s.ValidateDocument(category, file); err != nil {
		return nil, err
	}

	folder := "resumes"
	if category == CategoryCoverLetter {
		folder = "cover-letters"
	}
	contentType := NormalizeContentType(file.ContentType)
	key := s.objectKey("applications/"+folder, ownerID, extensionFor(file.Filename, contentType))

	rule, _ := s.validator.rule(category)
	body := &capReader{r: file.Reader, remaining: rule.MaxSize}
	if err := s.save(ctx, key, body, contentType); err != nil {
		if body.exceeded {
			return nil, apperrors.ErrPayloadTooLarge(string(category), rule.MaxSize+1, rule.MaxSize)
		}
		return nil, err
	}

	return s.describe(ctx, key, file.Filename, body.read, contentType)
}

func (s *UploadServiceImpl) StoreAvatar(ctx context.Context, ownerID string, file *FileInput) (*models.AttachmentDescriptor, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("avatar file is missing")
	}
	if err := s.validator.Validate(CategoryAvatar, file.Size, file.ContentType); err != nil {
		return nil, err
	}

	processed, err := s.images.Avatar(file.Reader)
	if err != nil {
		return nil, apperrors.NewBadRequestError("avatar is not a readable image").WithError(err)
	}

	size := int64(processed.Len())
	key := s.objectKey("avatars", ownerID, ".jpg")
	if err := s.save(ctx, key, processed, "image/jpeg"); err != nil {
		return nil, err
	}

	return s.describe(ctx, key, file.Filename, size, "image/jpeg")
}

func (s *UploadServiceImpl) DeleteAttachment(ctx context.Context, desc models.AttachmentDescriptor) error {
	if desc.StorageID == "" {
		return nil
	}
	start := time.Now()
	err := s.storage.Delete(ctx, desc.StorageID)
	logger.StorageLog("delete", desc.StorageID, time.Since(start), err)
	if err != nil {
		return apperrors.ErrUpstream(err)
	}
	return nil
}

func (s *UploadServiceImpl) DeleteAttachments(ctx context.Context, descs []models.AttachmentDescriptor) CleanupReport {
	return s.cleaner.Clean(ctx, descs)
}

func (s *UploadServiceImpl) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.storage.GetSignedURL(ctx, key, expiry)
	if err != nil {
		return "", apperrors.ErrUpstream(err)
	}
	return url, nil
}

func (s *UploadServiceImpl) save(ctx context.Context, key string, r io.Reader, contentType string) error {
	start := time.Now()
	err := s.storage.Save(ctx, key, r, contentType)
	logger.StorageLog("save", key, time.Since(start), err)
	if err != nil {
		return apperrors.ErrUpstream(err)
	}
	return nil
}

func (s *UploadServiceImpl) describe(ctx context.Context, key, filename string, size int64, contentType string) (*models.AttachmentDescriptor, error) {
	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		// The object is already written; do not leave it behind.
		_ = s.storage.Delete(ctx, key)
		return nil, apperrors.ErrUpstream(err)
	}

	return &models.AttachmentDescriptor{
		StorageID:         key,
		RetrievalURL:      url,
		OriginalFilename:  cleanFilename(filename),
		SizeBytes:         size,
		ContentType:       contentType,
		UploadedAt:        s.now().UTC(),
		RequiresSignedURL: s.storage.RequiresSignedURL(),
	}, nil
}

// objectKey: {prefix}/user-{owner}/{unix millis}_{random}{ext}
func (s *UploadServiceImpl) objectKey(prefix, ownerID, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s/user-%s/%d_%s%s", prefix, ownerID, s.now().UnixMilli(), random, ext)
}

var extensionsByType = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain": ".txt",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// extensionFor keeps a short alphanumeric extension from the client name,
// otherwise derives one from the content type.
func extensionFor(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 1 && len(ext) <= 6 && isAlnum(ext[1:]) {
		return ext
	}
	return extensionsByType[contentType]
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// cleanFilename strips any client side directory part.
func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "document"
	}
	return name
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

// capReader fails once more than remaining bytes have been read, so a client
// cannot stream past the limit it declared.
type capReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		c.exceeded = true
		return 0, errUploadTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		c.exceeded = true
		return n, errUploadTooLarge
	}
	return n, err
}
