package services

import (
	"context"

	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/repositories"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/auth"
	"github.com/santoso/presensia/internal/pkg/logger"
)

// AuthService handles operator authentication
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repositories.Repositories, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   repos.User,
		jwtService: jwtService,
	}
}

// Login checks credentials and issues an access token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn().Str("username", req.Username).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Username:    user.Username,
		RoleType:    string(user.RoleType),
	}, nil
}
