package services

import (
	"context"

	"go.uber.org/zap"

	"os-sistema/internal/dto"
	"os-sistema/internal/entities"
	"os-sistema/internal/repositories"
	apperrors "os-sistema/pkg/errors"
	"os-sistema/pkg/utils"
)

type UserServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	Update(ctx context.Context, id int64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	Delete(ctx context.Context, actorID, id int64) error
	FindByID(ctx context.Context, id int64) (*dto.UserDTO, error)
	List(ctx context.Context) ([]dto.UserDTO, error)
}

type userService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.SugaredLogger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.SugaredLogger) UserServiceInterface {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.userRepo.FindByUsername(ctx, payload.Username); err == nil {
		return nil, apperrors.NewConflictError("username '%s' já cadastrado", payload.Username)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     payload.Username,
		PasswordHash: hash,
		Nome:         payload.Nome,
		Role:         entities.Role(payload.Role),
		TelegramID:   payload.TelegramID,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("usuário criado", "id", id, "username", user.Username, "role", user.Role)

	return s.FindByID(ctx, id)
}

func (s *userService) Update(ctx context.Context, id int64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Password != nil {
		hash, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if payload.Nome != nil {
		user.Nome = *payload.Nome
	}
	if payload.Role != nil {
		user.Role = entities.Role(*payload.Role)
	}
	if payload.TelegramID != nil {
		user.TelegramID = payload.TelegramID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.NewValidationError("não é possível remover o próprio usuário")
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) FindByID(ctx context.Context, id int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToUserDTO(user)
	return &out, nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.ToUserDTO(&users[i]))
	}
	return out, nil
}
