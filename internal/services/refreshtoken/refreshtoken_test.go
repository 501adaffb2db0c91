package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

type TokenRepoMock struct{ mock.Mock }

func (m *TokenRepoMock) ReplaceRefreshToken(ctx context.Context, token, userID string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *TokenRepoMock) GetRefreshTokenByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService() (*RefreshTokenService, *TokenRepoMock, *UserRepoMock) {
	tokens := &TokenRepoMock{}
	users := &UserRepoMock{}
	maker := jwt.NewMaker("test-secret", "http://backend.local", "http://frontend.local", time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewRefreshTokenService(tokens, users, maker, log), tokens, users
}

func testUser() *models.User {
	return &models.User{
		ID:           "u-1",
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		RoleID:       "r-1",
	}
}

func TestRefreshTokenService_GetByToken(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, tokens, _ := newTestService()
		tokens.On("GetRefreshTokenByToken", mock.Anything, "tok").
			Return(&models.RefreshToken{ID: "t-1", Token: "tok", UserID: "u-1"}, nil).Once()

		info, err := svc.GetByToken(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "tok", info.Token)
		assert.Equal(t, "u-1", info.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, tokens, _ := newTestService()
		tokens.On("GetRefreshTokenByToken", mock.Anything, "tok-stale").
			Return(nil, repository.ErrNotFound).Once()

		info, err := svc.GetByToken(context.Background(), "tok-stale")
		assert.ErrorIs(t, err, ErrTokenNotFound)
		assert.Nil(t, info)
	})
}

func TestRefreshTokenService_Rotate(t *testing.T) {
	t.Run("success issues a fresh pair", func(t *testing.T) {
		svc, tokens, users := newTestService()
		tokens.On("GetRefreshTokenByToken", mock.Anything, "tok-old").
			Return(&models.RefreshToken{ID: "t-1", Token: "tok-old", UserID: "u-1"}, nil).Once()
		users.On("GetUserByID", mock.Anything, "u-1").Return(testUser(), nil).Once()
		tokens.On("ReplaceRefreshToken", mock.Anything, mock.AnythingOfType("string"), "u-1").
			Return(&models.RefreshToken{ID: "t-2", Token: "tok-new", UserID: "u-1"}, nil).Once()

		result, err := svc.Rotate(context.Background(), "tok-old")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.NotEmpty(t, result.RefreshToken)
		assert.NotEqual(t, "tok-old", result.RefreshToken)
		assert.Equal(t, "ada@example.com", result.User.Email)
		tokens.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, tokens, _ := newTestService()
		tokens.On("GetRefreshTokenByToken", mock.Anything, "tok-stale").
			Return(nil, repository.ErrNotFound).Once()

		result, err := svc.Rotate(context.Background(), "tok-stale")
		assert.ErrorIs(t, err, ErrTokenNotFound)
		assert.Nil(t, result)
	})

	t.Run("orphaned token", func(t *testing.T) {
		svc, tokens, users := newTestService()
		tokens.On("GetRefreshTokenByToken", mock.Anything, "tok-old").
			Return(&models.RefreshToken{ID: "t-1", Token: "tok-old", UserID: "ghost"}, nil).Once()
		users.On("GetUserByID", mock.Anything, "ghost").
			Return(nil, repository.ErrNotFound).Once()

		result, err := svc.Rotate(context.Background(), "tok-old")
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, result)
	})
}
