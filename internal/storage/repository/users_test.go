package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/models"
)

func strptr(s string) *string { return &s }

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	roleID := factory.CreateRole(t, "Student")

	t.Run("successful create", func(t *testing.T) {
		got, err := storage.CreateUser(context.Background(),
			"Ada Lovelace", "ada@x.com", "hashed-password", strptr("engineer"), roleID)
		require.NoError(t, err)

		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Ada Lovelace", got.Name)
		assert.Equal(t, "ada@x.com", got.Email)
		assert.Equal(t, "hashed-password", got.PasswordHash)
		require.NotNil(t, got.Profession)
		assert.Equal(t, "engineer", *got.Profession)
		assert.Equal(t, roleID, got.RoleID)
		assert.Nil(t, got.AvatarID)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := storage.CreateUser(context.Background(),
			"Another Ada", "ada@x.com", "other-hash", nil, roleID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmailTaken))
	})
}

func TestStorage_UpdateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	roleID := factory.CreateRole(t, "Student")

	t.Run("partial update leaves absent fields untouched", func(t *testing.T) {
		userID := factory.CreateUser(t, "Grace Hopper", "grace@x.com", "hash-1", roleID)

		got, err := storage.UpdateUser(context.Background(), models.UpdateUserEntry{
			ID:         userID,
			Profession: strptr("admiral"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Grace Hopper", got.Name)
		assert.Equal(t, "grace@x.com", got.Email)
		assert.Equal(t, "hash-1", got.PasswordHash)
		require.NotNil(t, got.Profession)
		assert.Equal(t, "admiral", *got.Profession)
	})

	t.Run("email change to taken email", func(t *testing.T) {
		factory.CreateUser(t, "Alan Turing", "alan@x.com", "hash-2", roleID)
		userID := factory.CreateUser(t, "John von Neumann", "john@x.com", "hash-3", roleID)

		_, err := storage.UpdateUser(context.Background(), models.UpdateUserEntry{
			ID:    userID,
			Email: strptr("alan@x.com"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmailTaken))

		// запись осталась нетронутой
		after, err := storage.GetUserByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "john@x.com", after.Email)
	})

	t.Run("nonexistent user", func(t *testing.T) {
		_, err := storage.UpdateUser(context.Background(), models.UpdateUserEntry{
			ID:   "00000000-0000-0000-0000-000000000000",
			Name: strptr("Nobody"),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestStorage_GetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	roleID := factory.CreateRole(t, "Student")
	userID := factory.CreateUser(t, "Ada Lovelace", "ada@x.com", "hash", roleID)

	t.Run("by email", func(t *testing.T) {
		got, err := storage.GetUserByEmail(context.Background(), "ada@x.com")
		require.NoError(t, err)
		assert.Equal(t, userID, got.ID)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := storage.GetUserByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "ada@x.com", got.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := storage.GetUserByEmail(context.Background(), "nobody@x.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := storage.GetUserByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	roleID := factory.CreateRole(t, "Student")

	t.Run("empty table", func(t *testing.T) {
		got, err := storage.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("several users", func(t *testing.T) {
		factory.CreateUser(t, "Ada Lovelace", "ada@x.com", "hash", roleID)
		factory.CreateUser(t, "Alan Turing", "alan@x.com", "hash", roleID)

		got, err := storage.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("malformed row is skipped", func(t *testing.T) {
		// Имя короче минимума модели: строка не пройдет повторную валидацию
		_, err := storage.DB.Exec(`INSERT INTO users (name, email, password_hash, role_id)
			VALUES ('x', 'broken@x.com', 'hash', $1)`, roleID)
		require.NoError(t, err)

		got, err := storage.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
		for _, u := range got {
			assert.NotEqual(t, "broken@x.com", u.Email)
		}
	})
}

func TestStorage_GetRoleByName(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	roleID := factory.CreateRole(t, "Student")

	t.Run("existing role", func(t *testing.T) {
		got, err := storage.GetRoleByName(context.Background(), "Student")
		require.NoError(t, err)
		assert.Equal(t, roleID, got.ID)
		assert.Equal(t, "Student", got.Name)
	})

	t.Run("missing role", func(t *testing.T) {
		_, err := storage.GetRoleByName(context.Background(), "Teacher")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
