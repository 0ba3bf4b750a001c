package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/domain"
)

type MySQLSessionRepository struct {
	db *sql.DB
}

func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}

func (r *MySQLSessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `
        INSERT INTO sessions (id, user_id, created_at, expires_at)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.CreatedAt, session.ExpiresAt)
	return err
}

func (r *MySQLSessionRepository) GetSessionUser(ctx context.Context, sessionID string, now time.Time) (*domain.SessionUser, error) {
	query := `
        SELECT u.id, u.email, u.is_admin
        FROM sessions s
        JOIN users u ON u.id = s.user_id
        WHERE s.id = ? AND s.expires_at > ?
    `

	var user domain.SessionUser
	err := r.db.QueryRowContext(ctx, query, sessionID, now).Scan(
		&user.ID, &user.Email, &user.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *MySQLSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (r *MySQLSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
