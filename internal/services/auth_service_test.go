package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/imageprocessor"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(signed bool) (AuthService, *memoryStorage, *auth.TokenManager) {
	db := newMemoryDB()
	store := newMemoryStorage(signed)
	uploads := NewUploadService(store, NewUploadValidator(DefaultUploadRules()), imageprocessor.NewProcessor(85, 64))
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(&fakeUserRepo{db: db}, tokens, uploads), store, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tokens := newAuthFixture(false)
	ctx := context.Background()

	res, err := svc.Register(ctx, nil, &dto.RegisterRequest{
		Name:     "Rita Recruiter",
		Email:    "Rita@Example.com",
		Password: "secret123",
		Role:     models.UserRoleRecruiter,
	})
	require.NoError(t, err)
	assert.Equal(t, "rita@example.com", res.User.Email)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := tokens.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, models.UserRoleRecruiter, claims.Role)

	_, err = svc.Register(ctx, nil, &dto.RegisterRequest{Name: "Copy", Email: "rita@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = svc.Login(ctx, nil, &dto.LoginRequest{Email: "RITA@example.com", Password: "secret123"})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, nil, &dto.LoginRequest{Email: "rita@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, nil, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegister_DefaultsToCandidate(t *testing.T) {
	svc, _, _ := newAuthFixture(false)

	res, err := svc.Register(context.Background(), nil, &dto.RegisterRequest{Name: "Cam", Email: "cam@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCandidate, res.User.Role)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newAuthFixture(false)
	ctx := context.Background()
	res, err := svc.Register(ctx, nil, &dto.RegisterRequest{Name: "Cam", Email: "cam@example.com", Password: "secret123"})
	require.NoError(t, err)

	bio := "Gopher"
	user, err := svc.UpdateProfile(ctx, nil, res.User.ID, &dto.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", user.Bio)
}

func pngAvatar(t *testing.T, w, h int) *FileInput {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &FileInput{Filename: "me.png", ContentType: "image/png", Size: int64(buf.Len()), Reader: &buf}
}

func TestUpdateAvatar_ReplacesPrevious(t *testing.T) {
	svc, store, _ := newAuthFixture(true)
	ctx := context.Background()
	res, err := svc.Register(ctx, nil, &dto.RegisterRequest{Name: "Cam", Email: "cam@example.com", Password: "secret123"})
	require.NoError(t, err)

	first, err := svc.UpdateAvatar(ctx, nil, res.User.ID, pngAvatar(t, 120, 80))
	require.NoError(t, err)
	assert.Contains(t, first.AvatarURL, "signature=", "private stores hand out signed avatar links")
	assert.Equal(t, 1, store.count())

	_, err = svc.UpdateAvatar(ctx, nil, res.User.ID, pngAvatar(t, 30, 30))
	require.NoError(t, err)
	assert.Equal(t, 1, store.count(), "old avatar is removed")
}

func TestUpdateAvatar_RejectsNonImages(t *testing.T) {
	svc, store, _ := newAuthFixture(false)
	ctx := context.Background()
	res, err := svc.Register(ctx, nil, &dto.RegisterRequest{Name: "Cam", Email: "cam@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.UpdateAvatar(ctx, nil, res.User.ID, pdfFile("cv.pdf", 10))
	assert.Equal(t, apperrors.CodeUnsupportedMediaType, apperrors.CodeOf(err))

	garbage := &FileInput{Filename: "x.png", ContentType: "image/png", Size: 4, Reader: stringsReader("nope")}
	_, err = svc.UpdateAvatar(ctx, nil, res.User.ID, garbage)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, store.count())
}
