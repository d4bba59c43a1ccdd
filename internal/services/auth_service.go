package services

import (
	"context"
	"errors"
	"strings"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetMe(ctx context.Context, db *gorm.DB, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.User, error)
	// UpdateAvatar replaces the avatar; the previous object is removed
	// best-effort.
	UpdateAvatar(ctx context.Context, db *gorm.DB, userID string, file *FileInput) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	uploads  UploadService
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, uploads UploadService) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		uploads:  uploads,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleCandidate
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		Skills:       pq.StringArray{},
	}
	if err := s.userRepo.CreateUser(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindUserByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Login failed", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthServiceImpl) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}

func (s *AuthServiceImpl) GetMe(ctx context.Context, db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	// Private stores hand out short lived avatar links.
	if user.AvatarKey != "" && s.uploads.RequiresSignedURL() {
		if url, err := s.uploads.SignedURL(ctx, user.AvatarKey, DefaultSignedURLExpiry); err == nil {
			user.AvatarURL = url
		} else {
			logger.CtxWithError(ctx, "Could not sign avatar url", err, "user_id", user.ID)
		}
	}
	return user, nil
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Skills != nil {
		updates["skills"] = pq.StringArray(*req.Skills)
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.Education != nil {
		updates["education"] = *req.Education
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateUser(db, userID, updates); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.DatabaseError(err)
		}
	}
	return s.GetMe(ctx, db, userID)
}

func (s *AuthServiceImpl) UpdateAvatar(ctx context.Context, db *gorm.DB, userID string, file *FileInput) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	desc, err := s.uploads.StoreAvatar(ctx, userID, file)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"avatar_url": desc.RetrievalURL,
		"avatar_key": desc.StorageID,
	}
	if err := s.userRepo.UpdateUser(db, userID, updates); err != nil {
		_ = s.uploads.DeleteAttachment(ctx, *desc)
		return nil, apperrors.DatabaseError(err)
	}

	if user.AvatarKey != "" && user.AvatarKey != desc.StorageID {
		if err := s.uploads.DeleteAttachment(ctx, models.AttachmentDescriptor{StorageID: user.AvatarKey}); err != nil {
			logger.CtxWithError(ctx, "Old avatar left in storage", err, "storage_id", user.AvatarKey)
		}
	}

	return s.GetMe(ctx, db, userID)
}
