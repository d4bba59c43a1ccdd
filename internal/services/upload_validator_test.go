package services

import (
	"testing"

	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestUploadValidator_Documents(t *testing.T) {
	v := NewUploadValidator(DefaultUploadRules())

	tests := []struct {
		name        string
		category    UploadCategory
		size        int64
		contentType string
		wantCode    apperrors.ErrorCode
	}{
		{"pdf at limit", CategoryResume, 10 << 20, "application/pdf", ""},
		{"pdf over limit", CategoryResume, 10<<20 + 1, "application/pdf", apperrors.CodePayloadTooLarge},
		{"docx", CategoryCoverLetter, 2048, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ""},
		{"msword", CategoryResume, 2048, "application/msword", ""},
		{"text with charset", CategoryCoverLetter, 10, "text/plain; charset=utf-8", ""},
		{"upper case type", CategoryResume, 10, "Application/PDF", ""},
		{"image as resume", CategoryResume, 2048, "image/png", apperrors.CodeUnsupportedMediaType},
		{"missing type", CategoryResume, 2048, "", apperrors.CodeUnsupportedMediaType},
		{"empty file", CategoryResume, 0, "application/pdf", apperrors.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.category, tt.size, tt.contentType)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
		})
	}
}

func TestUploadValidator_Avatar(t *testing.T) {
	v := NewUploadValidator(DefaultUploadRules())

	assert.NoError(t, v.Validate(CategoryAvatar, 5<<20, "image/webp"))
	assert.NoError(t, v.Validate(CategoryAvatar, 1024, "image/jpeg"))
	assert.Equal(t, apperrors.CodePayloadTooLarge, apperrors.CodeOf(v.Validate(CategoryAvatar, 5<<20+1, "image/png")))
	assert.Equal(t, apperrors.CodeUnsupportedMediaType, apperrors.CodeOf(v.Validate(CategoryAvatar, 1024, "application/pdf")))
}

func TestUploadValidator_ErrorCarriesLimit(t *testing.T) {
	v := NewUploadValidator(UploadRules{Document: CategoryRule{MaxSize: 100}})

	err := v.Validate(CategoryResume, 101, "application/pdf")
	appErr, ok := apperrors.AsAppError(err)
	if assert.True(t, ok) {
		assert.Equal(t, 413, appErr.HTTPCode)
		assert.Contains(t, appErr.Message, "100")
	}
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", NormalizeContentType(" application/pdf ; name=x.pdf"))
	assert.Equal(t, "text/plain", NormalizeContentType("TEXT/PLAIN;charset=UTF-8"))
	assert.Equal(t, "", NormalizeContentType(""))
}
