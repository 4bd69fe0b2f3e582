package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"os-sistema/internal/entities"
	apperrors "os-sistema/pkg/errors"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{
	"id", "username", "password_hash", "nome", "role", "telegram_id", "created_at",
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *entities.User) (int64, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
}

type userRepository struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepositoryInterface {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) (int64, error) {
	query, args, err := psql.Insert("users").
		Columns("username", "password_hash", "nome", "role", "telegram_id").
		Values(user.Username, user.PasswordHash, user.Nome, user.Role, user.TelegramID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	query, args, err := psql.Update("users").
		Set("password_hash", user.PasswordHash).
		Set("nome", user.Nome).
		Set("role", user.Role).
		Set("telegram_id", user.TelegramID).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"username": username})
}

func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"telegram_id": telegramID})
}

func (r *userRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var u entities.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Nome, &u.Role, &u.TelegramID, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]entities.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entities.User
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Nome, &u.Role, &u.TelegramID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
