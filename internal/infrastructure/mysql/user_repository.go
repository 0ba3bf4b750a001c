package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"auction-marketplace/internal/domain"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, is_admin, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return fmt.Errorf("user %s: %w", user.Email, domain.ErrEmailTaken)
	}
	return err
}

func (r *MySQLUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, is_admin, created_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), email)
}

func (r *MySQLUserRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, is_admin, created_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID), userID)
}

func (r *MySQLUserRepository) scanUser(row *sql.Row, ref string) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", ref, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
