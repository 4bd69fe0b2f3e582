package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/repositories"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/service"
	"os-sistema/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error)
	Me(ctx context.Context, userID int64) (*dto.UserDTO, error)
}

type authService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.SugaredLogger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.SugaredLogger,
) AuthServiceInterface {
	return &authService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(payload.Password, user.PasswordHash) {
		s.logger.Infow("tentativa de login com senha inválida", "username", payload.Username)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponseDTO{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.ToUserDTO(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := dto.ToUserDTO(user)
	return &out, nil
}
