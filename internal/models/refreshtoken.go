package models

import "time"

// RefreshToken — долгоживущий токен продления сессии.
// У пользователя существует не более одного токена одновременно,
// уникальность закреплена ограничениями в базе.
type RefreshToken struct {
	ID        string `validate:"required"`
	Token     string `validate:"required,min=3"`
	UserID    string `validate:"required"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefreshTokenInfo — проекция refresh-токена для выдачи наружу.
type RefreshTokenInfo struct {
	ID     string `json:"id"`
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Info возвращает проекцию refresh-токена.
func (t *RefreshToken) Info() *RefreshTokenInfo {
	return &RefreshTokenInfo{
		ID:     t.ID,
		Token:  t.Token,
		UserID: t.UserID,
	}
}
