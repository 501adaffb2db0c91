// Package models содержит доменные модели сервиса аккаунтов:
// пользователя, роль и refresh-токен.
// Структуры используются в бизнес-логике и при работе с хранилищем,
// теги validate служат для повторной проверки строк, прочитанных из базы.
package models

import "time"

// User представляет учётную запись пользователя системы.
type User struct {
	ID           string  `validate:"required"`       // Уникальный идентификатор пользователя
	Name         string  `validate:"required,min=3"` // Отображаемое имя
	Email        string  `validate:"required,email"` // Электронная почта (уникальная)
	PasswordHash string  `validate:"required"`       // Bcrypt-хэш пароля
	Profession   *string // Профессия (опционально)
	RoleID       string  `validate:"required"` // Ссылка на роль
	AvatarID     *string // Ссылка на аватар (опционально)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserInfo — проекция пользователя для выдачи наружу.
// Хэш пароля в проекцию не входит.
type UserInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Profession *string `json:"profession,omitempty"`
	RoleID     string  `json:"role_id"`
	AvatarID   *string `json:"avatar_id,omitempty"`
}

// Info возвращает проекцию пользователя без чувствительных полей.
func (u *User) Info() *UserInfo {
	return &UserInfo{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Profession: u.Profession,
		RoleID:     u.RoleID,
		AvatarID:   u.AvatarID,
	}
}

// UpdateUserEntry описывает частичное обновление пользователя.
// nil-поле означает "не трогать", значения всегда передаются
// в запрос связанными параметрами.
type UpdateUserEntry struct {
	ID           string
	Name         *string
	Email        *string
	PasswordHash *string
	Profession   *string
	AvatarID     *string
}

// IsEmpty сообщает, что в частичном обновлении нет ни одного поля.
func (e UpdateUserEntry) IsEmpty() bool {
	return e.Name == nil && e.Email == nil && e.PasswordHash == nil &&
		e.Profession == nil && e.AvatarID == nil
}
