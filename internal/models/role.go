package models

import "time"

// DefaultRoleName — роль, назначаемая пользователю при регистрации.
const DefaultRoleName = "Student"

// Role представляет именованную группу прав.
// Роли — справочные данные, сервис их не изменяет.
type Role struct {
	ID        string `validate:"required"`
	Name      string `validate:"required,min=3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
