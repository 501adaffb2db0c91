package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/account-service/internal/models"
)

const refreshTokenColumns = `id, token, user_id, created_at, updated_at`

func (s *Storage) scanRefreshToken(row interface{ Scan(dest ...any) error }) (*models.RefreshToken, error) {
	t := &models.RefreshToken{}
	if err := row.Scan(&t.ID, &t.Token, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return t, nil
}

// CreateRefreshToken сохраняет refresh-токен пользователя.
func (s *Storage) CreateRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error) {
	const op = "storage.CreateRefreshToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO refresh_tokens (token, user_id)
			  VALUES ($1, $2)
			  RETURNING ` + refreshTokenColumns
	row := s.DB.QueryRowContext(ctx, query, token, userID)

	t, err := s.scanRefreshToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCreateFailed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ReplaceRefreshToken атомарно заменяет refresh-токен пользователя:
// удаление старого и вставка нового идут в одной транзакции, чтобы
// параллельные запросы не оставили два живых токена.
func (s *Storage) ReplaceRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error) {
	const op = "storage.ReplaceRefreshToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO refresh_tokens (token, user_id)
			  VALUES ($1, $2)
			  RETURNING ` + refreshTokenColumns
	row := tx.QueryRowContext(ctx, query, token, userID)

	t, err := s.scanRefreshToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCreateFailed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DeleteRefreshTokenByUser удаляет refresh-токен пользователя и возвращает
// удалённую запись. Повторный вызов даёт ErrNotFound — это ожидаемое
// поведение выхода из уже завершённой сессии.
func (s *Storage) DeleteRefreshTokenByUser(ctx context.Context, userID string) (*models.RefreshToken, error) {
	const op = "storage.DeleteRefreshTokenByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM refresh_tokens
			  WHERE user_id = $1
			  RETURNING ` + refreshTokenColumns
	row := s.DB.QueryRowContext(ctx, query, userID)

	t, err := s.scanRefreshToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// GetRefreshTokenByToken возвращает запись по значению токена.
func (s *Storage) GetRefreshTokenByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const op = "storage.GetRefreshTokenByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + refreshTokenColumns + `
			  FROM refresh_tokens
			  WHERE token = $1`
	row := s.DB.QueryRowContext(ctx, query, token)

	t, err := s.scanRefreshToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// GetRefreshTokenByUser возвращает запись по идентификатору пользователя.
func (s *Storage) GetRefreshTokenByUser(ctx context.Context, userID string) (*models.RefreshToken, error) {
	const op = "storage.GetRefreshTokenByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + refreshTokenColumns + `
			  FROM refresh_tokens
			  WHERE user_id = $1`
	row := s.DB.QueryRowContext(ctx, query, userID)

	t, err := s.scanRefreshToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}
