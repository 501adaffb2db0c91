// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, ролями и refresh-токенами. Каждая
// прочитанная строка повторно проверяется на соответствие модели,
// прежде чем вернуться наверх.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Сервисный слой разбирает их через errors.Is
// и сам решает, какой класс ошибки показать наружу.
var (
	// ErrNotFound — запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrCreateFailed — запись не была создана (ни одной строки не записано).
	ErrCreateFailed = errors.New("no rows created")
	// ErrEmailTaken — электронная почта уже занята другим пользователем.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidRow — строка из базы не прошла повторную валидацию модели.
	ErrInvalidRow = errors.New("stored row failed validation")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, ролями и refresh-токенами.
type Storage struct {
	DB       *sql.DB
	validate *validator.Validate
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB:       db,
		validate: validator.New(),
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation распознаёт нарушение уникального ограничения Postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
