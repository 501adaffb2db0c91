// Package jwt реализует выпуск и парсинг access-токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс выпуска и проверки токенов.
// MakerImpl — конкретная реализация на секретном ключе HS256 и сроке жизни токена.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// Maker описывает интерфейс для выпуска и парсинга access-токенов.
type Maker interface {
	// IssueToken выпускает подписанный токен для пользователя.
	IssueToken(user *models.User) (string, error)
	// ParseToken возвращает *Claims, если токен корректен и не истёк.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
//
// issuer и audience — идентификаторы бэкенда и фронтенда, попадающие
// в соответствующие registered claims.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов
	issuer    string        // Идентификатор бэкенда (iss)
	audience  string        // Идентификатор фронтенда (aud)
	tokenTTL  time.Duration // Время жизни токена
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey, issuer, audience string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  ttl,
	}
}
