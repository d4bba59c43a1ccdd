package services

import (
	"mime"
	"strings"

	"jobportal_backend/pkg/apperrors"
)

// UploadCategory selects the size and type rules for an upload.
type UploadCategory string

const (
	CategoryResume      UploadCategory = "resume"
	CategoryCoverLetter UploadCategory = "cover_letter"
	CategoryAvatar      UploadCategory = "avatar"
)

const (
	DefaultDocumentMaxSize int64 = 10 << 20
	DefaultAvatarMaxSize   int64 = 5 << 20
)

var (
	DefaultDocumentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	}
	DefaultAvatarTypes = []string{"image/jpeg", "image/png", "image/webp"}
)

type CategoryRule struct {
	MaxSize      int64
	AllowedTypes []string
}

// UploadRules: resumes and cover letters share the document rule.
type UploadRules struct {
	Document CategoryRule
	Avatar   CategoryRule
}

func DefaultUploadRules() UploadRules {
	return UploadRules{
		Document: CategoryRule{MaxSize: DefaultDocumentMaxSize, AllowedTypes: DefaultDocumentTypes},
		Avatar:   CategoryRule{MaxSize: DefaultAvatarMaxSize, AllowedTypes: DefaultAvatarTypes},
	}
}

// UploadValidator checks declared size and content type. It never reads the
// payload and has no side effects.
type UploadValidator struct {
	rules UploadRules
}

func NewUploadValidator(rules UploadRules) *UploadValidator {
	defaults := DefaultUploadRules()
	if rules.Document.MaxSize <= 0 {
		rules.Document.MaxSize = defaults.Document.MaxSize
	}
	if len(rules.Document.AllowedTypes) == 0 {
		rules.Document.AllowedTypes = defaults.Document.AllowedTypes
	}
	if rules.Avatar.MaxSize <= 0 {
		rules.Avatar.MaxSize = defaults.Avatar.MaxSize
	}
	if len(rules.Avatar.AllowedTypes) == 0 {
		rules.Avatar.AllowedTypes = defaults.Avatar.AllowedTypes
	}
	return &UploadValidator{rules: rules}
}

func (v *UploadValidator) rule(category UploadCategory) (CategoryRule, bool) {
	switch category {
	case CategoryResume, CategoryCoverLetter:
		return v.rules.Document, true
	case CategoryAvatar:
		return v.rules.Avatar, true
	}
	return CategoryRule{}, false
}

// Validate accepts size == limit and rejects limit+1. Content type
// parameters such as charset are ignored.
func (v *UploadValidator) Validate(category UploadCategory, size int64, contentType string) error {
	rule, ok := v.rule(category)
	if !ok {
		return apperrors.NewBadRequestError("unknown upload category: " + string(category))
	}

	if size <= 0 {
		return apperrors.NewBadRequestError(string(category) + " file is empty")
	}
	if size > rule.MaxSize {
		return apperrors.ErrPayloadTooLarge(string(category), size, rule.MaxSize)
	}

	mediaType := NormalizeContentType(contentType)
	for _, allowed := range rule.AllowedTypes {
		if mediaType == allowed {
			return nil
		}
	}
	return apperrors.ErrUnsupportedMediaType(string(category), mediaType, rule.AllowedTypes)
}

// NormalizeContentType lowercases the media type and drops parameters.
func NormalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.SplitN(contentType, ";", 2)[0]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
