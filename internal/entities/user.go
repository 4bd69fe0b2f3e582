package entities

import "time"

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleMonitoramento Role = "monitoramento"
	RoleExecucao      Role = "execucao"
	RoleCampo         Role = "campo"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMonitoramento, RoleExecucao, RoleCampo:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	TelegramID   *int64
	Nome         string
	CreatedAt    time.Time
}

// DisplayName prefere o nome completo; cai no username quando não há.
func (u *User) DisplayName() string {
	if u.Nome != "" {
		return u.Nome
	}
	return u.Username
}
