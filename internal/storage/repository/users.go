package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/todo-saas/internal/apperr"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникального ограничения.
const uniqueViolation = "23505"

// CreateUser сохраняет нового пользователя, пришедшего из события провайдера.
// Повторная доставка того же события упирается в уникальность email.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (uid, email, is_subscribed, subscription_ends_at)
			  VALUES ($1, $2, $3, $4)`
	_, err := s.DB.ExecContext(ctx, query,
		user.UID, user.Email, user.IsSubscribed, user.SubscriptionEndsAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, apperr.ErrEmailTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT uid, email, is_subscribed, subscription_ends_at
			  FROM users
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	u := &models.User{}
	var endsAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.IsSubscribed, &endsAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endsAt.Valid {
		u.SubscriptionEndsAt = &endsAt.Time
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по точному совпадению email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT uid, email, is_subscribed, subscription_ends_at
			  FROM users
			  WHERE email = $1`
	row := s.DB.QueryRowContext(ctx, query, email)

	u := &models.User{}
	var endsAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.IsSubscribed, &endsAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endsAt.Valid {
		u.SubscriptionEndsAt = &endsAt.Time
	}
	return u, nil
}

// UpdateSubscription записывает новое состояние подписки пользователя.
func (s *Storage) UpdateSubscription(ctx context.Context, userUID string, isSubscribed bool, endsAt *time.Time) error {
	const op = "storage.UpdateSubscription"

	query := `UPDATE users
			  SET is_subscribed = $1, subscription_ends_at = $2
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, isSubscribed, endsAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
	}
	return nil
}
