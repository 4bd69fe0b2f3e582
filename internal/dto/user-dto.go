package dto

import (
	"time"

	"os-sistema/internal/entities"
)

type CreateUserDTO struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=6"`
	Nome       string `json:"nome" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=admin monitoramento execucao campo"`
	TelegramID *int64 `json:"telegram_id,omitempty"`
}

type UpdateUserDTO struct {
	Password   *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Nome       *string `json:"nome,omitempty"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=admin monitoramento execucao campo"`
	TelegramID *int64  `json:"telegram_id,omitempty"`
}

type UserDTO struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Nome       string    `json:"nome"`
	Role       string    `json:"role"`
	TelegramID *int64    `json:"telegram_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToUserDTO(u *entities.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Username:   u.Username,
		Nome:       u.Nome,
		Role:       string(u.Role),
		TelegramID: u.TelegramID,
		CreatedAt:  u.CreatedAt,
	}
}
