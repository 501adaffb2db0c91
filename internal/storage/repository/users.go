package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/account-service/internal/models"
)

const userColumns = `id, name, email, password_hash, profession, role_id, avatar_id, created_at, updated_at`

// scanUser читает строку пользователя и повторно проверяет её на
// соответствие модели. Непрошедшая строка — ErrInvalidRow, а не ErrNotFound.
func (s *Storage) scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var profession, avatarID sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&profession, &u.RoleID, &avatarID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if profession.Valid {
		u.Profession = &profession.String
	}
	if avatarID.Valid {
		u.AvatarID = &avatarID.String
	}
	if err := s.validate.Struct(u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает созданную запись.
func (s *Storage) CreateUser(ctx context.Context, name, email, passwordHash string, profession *string, roleID string) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (name, email, password_hash, profession, role_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query, name, email, passwordHash, profession, roleID)

	u, err := s.scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCreateFailed)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUser применяет частичное обновление пользователя.
//
// В SET попадают только присутствующие поля; имена колонок — константные
// фрагменты, значения всегда передаются связанными параметрами.
func (s *Storage) UpdateUser(ctx context.Context, entry models.UpdateUserEntry) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var setClauses []string
	var args []any

	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if entry.Name != nil {
		addSet("name", *entry.Name)
	}
	if entry.Email != nil {
		addSet("email", *entry.Email)
	}
	if entry.PasswordHash != nil {
		addSet("password_hash", *entry.PasswordHash)
	}
	if entry.Profession != nil {
		addSet("profession", *entry.Profession)
	}
	if entry.AvatarID != nil {
		addSet("avatar_id", *entry.AvatarID)
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, entry.ID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), userColumns)

	row := s.DB.QueryRowContext(ctx, query, args...)
	u, err := s.scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	row := s.DB.QueryRowContext(ctx, query, email)

	u, err := s.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	u, err := s.scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей.
//
// Строки, не прошедшие повторную валидацию, пропускаются: один битый
// пользователь не должен обрушить весь список.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			if errors.Is(err, ErrInvalidRow) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
