// Package services реализует логику работы с refresh-токенами:
// привязку токена к пользователю, поиск и ротацию сессии.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Ошибки бизнес-уровня по вине клиента.
var (
	// ErrTokenNotFound — refresh-токен не найден в хранилище.
	ErrTokenNotFound = errors.New("refresh token not found")
	// ErrUserNotFound — владелец токена не найден.
	ErrUserNotFound = errors.New("user not found")
)

// TokenRepository описывает контракт хранилища refresh-токенов.
type TokenRepository interface {
	ReplaceRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error)
	GetRefreshTokenByToken(ctx context.Context, token string) (*models.RefreshToken, error)
}

// UserRepository описывает доступ к пользователям, нужный при ротации.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RotateResult — результат ротации: новый access-токен, новый
// refresh-токен и проекция владельца.
type RotateResult struct {
	Token        string           `json:"token"`
	RefreshToken string           `json:"refresh_token"`
	User         *models.UserInfo `json:"user"`
}

// RefreshTokenService реализует операции с refresh-токенами.
type RefreshTokenService struct {
	tokens   TokenRepository
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewRefreshTokenService создает новый экземпляр RefreshTokenService.
func NewRefreshTokenService(tokens TokenRepository, users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *RefreshTokenService {
	return &RefreshTokenService{
		tokens:   tokens,
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// GetByToken возвращает сохранённый refresh-токен по его значению.
// Сам токен здесь выступает и как идентификатор, и как секрет.
func (s *RefreshTokenService) GetByToken(ctx context.Context, token string) (*models.RefreshTokenInfo, error) {
	stored, err := s.tokens.GetRefreshTokenByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return stored.Info(), nil
}

// Rotate принимает действующий refresh-токен и выпускает свежую пару:
// новый access-токен и новый refresh-токен. Старый токен при этом
// вытесняется атомарной заменой в хранилище.
func (s *RefreshTokenService) Rotate(ctx context.Context, token string) (*RotateResult, error) {
	stored, err := s.tokens.GetRefreshTokenByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	accessToken, err := s.jwtMaker.IssueToken(user)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if _, err = s.tokens.ReplaceRefreshToken(ctx, refresh, user.ID); err != nil {
		return nil, err
	}
	s.log.Info("refresh token rotated", slog.String("user_id", user.ID))

	return &RotateResult{
		Token:        accessToken,
		RefreshToken: refresh,
		User:         user.Info(),
	}, nil
}
