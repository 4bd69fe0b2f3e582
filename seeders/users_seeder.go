package seeders

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"os-sistema/internal/entities"
	"os-sistema/pkg/utils"
)

type seedUser struct {
	Username string
	Password string
	Nome     string
	Role     entities.Role
}

// UsersSeeder cria o admin inicial e alguns usuários de exemplo. A senha do
// admin deve ser trocada no primeiro acesso.
type UsersSeeder struct{}

func (UsersSeeder) Name() string { return "users" }

func (UsersSeeder) Run(ctx context.Context, db *pgxpool.Pool) error {
	users := []seedUser{
		{Username: "admin", Password: "admin123", Nome: "Administrador", Role: entities.RoleAdmin},
		{Username: "monitor", Password: "monitor123", Nome: "Monitoramento", Role: entities.RoleMonitoramento},
		{Username: "executor", Password: "executor123", Nome: "Técnico de Execução", Role: entities.RoleExecucao},
		{Username: "campo", Password: "campo123", Nome: "Técnico de Campo", Role: entities.RoleCampo},
	}

	for _, u := range users {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `
			INSERT INTO users (username, password_hash, nome, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (username) DO NOTHING`,
			u.Username, hash, u.Nome, u.Role)
		if err != nil {
			return err
		}
	}
	return nil
}
