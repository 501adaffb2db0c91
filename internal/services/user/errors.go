package services

import "errors"

// Ошибки бизнес-уровня. Каждая из них — отказ по вине клиента и
// транслируется обработчиком в код 400; всё остальное — внутренний сбой
// и наружу уходит только обезличенное сообщение с кодом 500.
var (
	// ErrEmailTaken — электронная почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email already exists")
	// ErrRoleNotFound — роль по умолчанию отсутствует в справочнике.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenNotFound — refresh-токен не найден.
	ErrTokenNotFound = errors.New("refresh token not found")
	// ErrInvalidCredentials — пароль не совпадает с хэшем.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUploadFailed — внешний медиасервис не принял файл.
	ErrUploadFailed = errors.New("media upload failed")
)
