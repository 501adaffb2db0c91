package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// GetRoleByName возвращает роль по её имени.
//
// Роли — справочные данные, методов записи у хранилища нет.
func (s *Storage) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	const op = "storage.GetRoleByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, created_at, updated_at
			  FROM roles
			  WHERE name = $1`
	r := &models.Role{}
	row := s.DB.QueryRowContext(ctx, query, name)

	if err := row.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.validate.Struct(r); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidRow, err)
	}
	return r, nil
}
