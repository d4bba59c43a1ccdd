package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	DefaultSignedURLExpiry = time.Hour
	DefaultContentType     = "application/pdf"
)

// AccessAuthorizer decides who may see an application and its documents:
// the applicant, or the recruiter who posted the job. Nobody else.
type AccessAuthorizer struct{}

func NewAccessAuthorizer() *AccessAuthorizer {
	return &AccessAuthorizer{}
}

func (a *AccessAuthorizer) CanAccess(callerID string, app *models.Application) bool {
	if callerID == "" || app == nil {
		return false
	}
	if app.ApplicantID == callerID {
		return true
	}
	return app.Job != nil && app.Job.PostedByID == callerID
}

type DeliveryConfig struct {
	SignedURLExpiry time.Duration
	// ProxyTimeout bounds a whole proxied transfer; zero means no bound
	// beyond the request context.
	ProxyTimeout time.Duration
	// HTTPClient fetches descriptors that only carry a retrieval URL.
	HTTPClient *http.Client
}

// DocumentStream is an open document body. The caller must Close it.
type DocumentStream struct {
	Body          io.ReadCloser
	Descriptor    models.AttachmentDescriptor
	ContentLength int64
}

type DocumentService interface {
	GetMetadata(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (*dto.DocumentMetadata, error)
	// ResolveRedirect returns the URL the client should be sent to, signed
	// when the descriptor asks for it.
	ResolveRedirect(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (string, *models.AttachmentDescriptor, error)
	// OpenStream opens the bytes for proxying. Reads stop when ctx ends.
	OpenStream(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (*DocumentStream, error)
	Inventory(ctx context.Context, db *gorm.DB, callerID, applicationID string) (*dto.DocumentInventory, error)
}

type DocumentServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	storage         storage.Storage
	access          *AccessAuthorizer
	cfg             DeliveryConfig
}

func NewDocumentService(applicationRepo repositories.ApplicationRepository, store storage.Storage, cfg DeliveryConfig) DocumentService {
	if cfg.SignedURLExpiry <= 0 {
		cfg.SignedURLExpiry = DefaultSignedURLExpiry
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &DocumentServiceImpl{
		applicationRepo: applicationRepo,
		storage:         store,
		access:          NewAccessAuthorizer(),
		cfg:             cfg,
	}
}

// authorizedApplication: the application must exist before the caller is
// checked, so strangers learn nothing beyond existence.
func (s *DocumentServiceImpl) authorizedApplication(db *gorm.DB, callerID, applicationID string) (*models.Application, error) {
	if !validID(applicationID) {
		return nil, apperrors.ErrApplicationNotFound
	}
	app, err := s.applicationRepo.FindApplicationByID(db, applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !s.access.CanAccess(callerID, app) {
		return nil, apperrors.ErrDocumentAccessDenied
	}
	return app, nil
}

// authorize: application exists, caller allowed, slot filled. In that order.
func (s *DocumentServiceImpl) authorize(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (*models.AttachmentDescriptor, error) {
	app, err := s.authorizedApplication(db, callerID, applicationID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrDocumentAccessDenied) {
			logger.CtxWarn(ctx, "Document access denied", "application_id", applicationID, "kind", kind)
		}
		return nil, err
	}

	desc := app.Docs().Get(kind)
	if desc == nil {
		return nil, apperrors.ErrDocumentNotFound
	}
	return desc, nil
}

func (s *DocumentServiceImpl) GetMetadata(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (*dto.DocumentMetadata, error) {
	desc, err := s.authorize(ctx, db, callerID, applicationID, kind)
	if err != nil {
		return nil, err
	}

	meta := &dto.DocumentMetadata{
		Kind:              kind,
		DownloadURL:       desc.RetrievalURL,
		RequiresSignedURL: desc.RequiresSignedURL,
		Filename:          desc.OriginalFilename,
		FileSize:          desc.SizeBytes,
		ContentType:       ContentTypeOrDefault(desc),
		UploadedAt:        desc.UploadedAt,
	}
	if desc.RequiresSignedURL && desc.StorageID != "" {
		meta.SignedURL, err = s.sign(ctx, desc.StorageID)
		if err != nil {
			return nil, err
		}
	}
	return meta, nil
}

func (s *DocumentServiceImpl) ResolveRedirect(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (string, *models.AttachmentDescriptor, error) {
	desc, err := s.authorize(ctx, db, callerID, applicationID, kind)
	if err != nil {
		return "", nil, err
	}

	if !desc.RequiresSignedURL || desc.StorageID == "" {
		if desc.RetrievalURL == "" {
			return "", nil, apperrors.ErrDocumentNotFound
		}
		return desc.RetrievalURL, desc, nil
	}

	url, err := s.sign(ctx, desc.StorageID)
	if err != nil {
		return "", nil, err
	}
	return url, desc, nil
}

func (s *DocumentServiceImpl) sign(ctx context.Context, key string) (string, error) {
	start := time.Now()
	url, err := s.storage.GetSignedURL(ctx, key, s.cfg.SignedURLExpiry)
	logger.StorageLog("sign", key, time.Since(start), err)
	if err != nil {
		return "", apperrors.ErrUpstream(err)
	}
	return url, nil
}

func (s *DocumentServiceImpl) OpenStream(ctx context.Context, db *gorm.DB, callerID, applicationID string, kind models.DocumentKind) (*DocumentStream, error) {
	desc, err := s.authorize(ctx, db, callerID, applicationID, kind)
	if err != nil {
		return nil, err
	}

	cancel := context.CancelFunc(func() {})
	if s.cfg.ProxyTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProxyTimeout)
	}

	body, length, err := s.open(ctx, desc)
	if err != nil {
		cancel()
		logger.CtxWithError(ctx, "Document fetch failed", err, "storage_id", desc.StorageID)
		return nil, apperrors.ErrUpstream(err)
	}

	if length < 0 {
		length = desc.SizeBytes
	}
	return &DocumentStream{
		Body:          &cancelOnClose{ReadCloser: body, cancel: cancel},
		Descriptor:    *desc,
		ContentLength: length,
	}, nil
}

// open returns length -1 when the source does not know it.
func (s *DocumentServiceImpl) open(ctx context.Context, desc *models.AttachmentDescriptor) (io.ReadCloser, int64, error) {
	if desc.StorageID != "" {
		start := time.Now()
		body, err := s.storage.Get(ctx, desc.StorageID)
		logger.StorageLog("get", desc.StorageID, time.Since(start), err)
		return body, -1, err
	}

	if desc.RetrievalURL == "" {
		return nil, 0, errors.New("descriptor has neither storage id nor retrieval url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.RetrievalURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("upstream responded %d", resp.StatusCode)
	}
	return resp.Body, resp.ContentLength, nil
}

func (s *DocumentServiceImpl) Inventory(ctx context.Context, db *gorm.DB, callerID, applicationID string) (*dto.DocumentInventory, error) {
	app, err := s.authorizedApplication(db, callerID, applicationID)
	if err != nil {
		return nil, err
	}

	docs := app.Docs()
	inv := &dto.DocumentInventory{ApplicationID: app.ID}
	for _, kind := range []models.DocumentKind{models.DocumentResume, models.DocumentCoverLetter} {
		slot := dto.DocumentSlot{Kind: kind}
		if desc := docs.Get(kind); desc != nil {
			slot.Present = true
			slot.Descriptor = desc
		}
		inv.Documents = append(inv.Documents, slot)
	}
	return inv, nil
}

// ContentTypeOrDefault: older records may lack a content type.
func ContentTypeOrDefault(desc *models.AttachmentDescriptor) string {
	if desc.ContentType == "" {
		return DefaultContentType
	}
	return desc.ContentType
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
