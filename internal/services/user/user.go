// Package services содержит логику бизнес-уровня для работы с учётными
// записями и сессиями: регистрация, вход, выход и изменение профиля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/account-service/internal/lib/password"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/mediaservice"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает созданную запись.
	CreateUser(ctx context.Context, name, email, passwordHash string, profession *string, roleID string) (*models.User, error)
	// UpdateUser применяет частичное обновление пользователя.
	UpdateUser(ctx context.Context, entry models.UpdateUserEntry) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя по ID или ошибку, если не найден.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// ListUsers возвращает всех пользователей, пропуская битые строки.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// RoleRepository описывает контракт для чтения справочника ролей.
type RoleRepository interface {
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
}

// RefreshTokenRepository описывает контракт хранилища refresh-токенов.
type RefreshTokenRepository interface {
	// ReplaceRefreshToken атомарно заменяет токен пользователя.
	ReplaceRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error)
	// DeleteRefreshTokenByUser удаляет токен пользователя.
	DeleteRefreshTokenByUser(ctx context.Context, userID string) (*models.RefreshToken, error)
	// GetRefreshTokenByUser возвращает токен пользователя.
	GetRefreshTokenByUser(ctx context.Context, userID string) (*models.RefreshToken, error)
}

// MediaUploader описывает контракт внешнего медиасервиса.
type MediaUploader interface {
	Upload(ctx context.Context, filename string, file []byte) (*mediaservice.UploadResponse, error)
}

// CleanupPublisher ставит в очередь задания на удаление осиротевших медиа.
type CleanupPublisher interface {
	PublishAvatarCleanup(avatarID string) error
}

// Cache описывает методы для кэширования проекций пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Session — результат успешной аутентификации: проекция пользователя,
// access-токен и refresh-токен.
type Session struct {
	User         *models.UserInfo `json:"user"`
	Token        string           `json:"token"`
	RefreshToken string           `json:"refresh_token"`
}

// UserService реализует бизнес-логику учётных записей и сессий.
type UserService struct {
	users     UserRepository
	roles     RoleRepository
	tokens    RefreshTokenRepository
	media     MediaUploader
	publisher CleanupPublisher
	cache     Cache
	jwtMaker  jwt.Maker
	log       *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users UserRepository, roles RoleRepository, tokens RefreshTokenRepository,
	media MediaUploader, publisher CleanupPublisher, cache Cache, jwtMaker jwt.Maker, log *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		media:     media,
		publisher: publisher,
		cache:     cache,
		jwtMaker:  jwtMaker,
		log:       log,
	}
}

func cacheKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// openSession выпускает access-токен и заменяет refresh-токен пользователя.
// Политика единая для регистрации и входа: каждый успешный вход в систему
// выдаёт свежую пару токенов.
func (s *UserService) openSession(ctx context.Context, user *models.User) (*Session, error) {
	token, err := s.jwtMaker.IssueToken(user)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if _, err = s.tokens.ReplaceRefreshToken(ctx, refresh, user.ID); err != nil {
		return nil, err
	}

	return &Session{
		User:         user.Info(),
		Token:        token,
		RefreshToken: refresh,
	}, nil
}

// Register создает нового пользователя с хэшированием пароля и ролью
// по умолчанию, затем открывает сессию.
func (s *UserService) Register(ctx context.Context, name, email, rawPassword string, profession *string) (*Session, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	role, err := s.roles.GetRoleByName(ctx, models.DefaultRoleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, name, email, hashed, profession, role.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("registered new user", slog.String("user_id", user.ID))

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.cacheUserInfo(ctx, session.User)
	return session, nil
}

// Login проверяет пароль пользователя и открывает сессию.
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !password.Verify(rawPassword, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user logged in", slog.String("user_id", user.ID))
	s.cacheUserInfo(ctx, session.User)
	return session, nil
}

// Logout удаляет refresh-токен пользователя.
//
// Повторный выход даёт ErrTokenNotFound: сессии уже нет, и это не сбой.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if _, err := s.tokens.GetRefreshTokenByUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	if _, err := s.tokens.DeleteRefreshTokenByUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return err
	}
	s.log.Info("user logged out", slog.String("user_id", userID))
	return nil
}

// UpdateProfile применяет частичное обновление имени, почты и профессии.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, name, email, profession *string) (*models.UserInfo, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if email != nil {
		owner, err := s.users.GetUserByEmail(ctx, *email)
		if err == nil && owner.ID != userID {
			return nil, ErrEmailTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	user, err := s.users.UpdateUser(ctx, models.UpdateUserEntry{
		ID:         userID,
		Name:       name,
		Email:      email,
		Profession: profession,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, err
		}
	}

	s.invalidateUser(ctx, userID)
	return user.Info(), nil
}

// UpdatePassword меняет пароль после проверки старого.
func (s *UserService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) (*models.UserInfo, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !password.Verify(oldPassword, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateUser(ctx, models.UpdateUserEntry{
		ID:           userID,
		PasswordHash: &hashed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.invalidateUser(ctx, userID)
	s.log.Info("password updated", slog.String("user_id", userID))
	return updated.Info(), nil
}

// UpdateAvatar загружает файл в медиасервис и привязывает новый аватар.
// Старый медиа-объект ставится в очередь на фоновую очистку.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, filename string, file []byte) (*models.UserInfo, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	oldAvatar := user.AvatarID

	uploaded, err := s.media.Upload(ctx, filename, file)
	if err != nil {
		s.log.Error("media upload failed", sl.Err(err))
		return nil, ErrUploadFailed
	}

	updated, err := s.users.UpdateUser(ctx, models.UpdateUserEntry{
		ID:       userID,
		AvatarID: &uploaded.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if oldAvatar != nil {
		if err := s.publisher.PublishAvatarCleanup(*oldAvatar); err != nil {
			s.log.Warn("failed to queue old avatar cleanup",
				slog.String("avatar_id", *oldAvatar), sl.Err(err))
		}
	}

	s.invalidateUser(ctx, userID)
	return updated.Info(), nil
}

// GetByID возвращает проекцию пользователя, используя кеш или хранилище.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.UserInfo, error) {
	var cached models.UserInfo
	found, err := s.cache.Get(ctx, cacheKey(userID), &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := user.Info()
	s.cacheUserInfo(ctx, info)
	return info, nil
}

// GetAll возвращает проекции всех пользователей.
func (s *UserService) GetAll(ctx context.Context) ([]*models.UserInfo, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*models.UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, u.Info())
	}
	return result, nil
}

func (s *UserService) cacheUserInfo(ctx context.Context, info *models.UserInfo) {
	if err := s.cache.Set(ctx, cacheKey(info.ID), info, time.Hour); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", cacheKey(info.ID)), sl.Err(err))
	}
}

func (s *UserService) invalidateUser(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, cacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(userID)), sl.Err(err))
	}
}
