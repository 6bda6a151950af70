package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/TanasubRat/travel-match-backend/internal/models"
	"github.com/TanasubRat/travel-match-backend/internal/services"
)

func TestUserService_Register_OK(t *testing.T) {
	var created *models.User
	users := &mockUserStore{
		emailExists: func(_ context.Context, email string) (bool, error) {
			assert.Equal(t, "alice@example.com", email, "email is lower-cased and trimmed")
			return false, nil
		},
		create: func(_ context.Context, u *models.User) error {
			created = u
			return nil
		},
	}
	svc := services.NewUserService(users, "secret", "")

	user, token, err := svc.Register(context.Background(), " Alice@Example.com ", "hunter22", "Alice", "")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password is stored hashed")

	// The returned token must round-trip through validation.
	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestUserService_Register_BetaCodeGate(t *testing.T) {
	svc := services.NewUserService(&mockUserStore{}, "secret", "SECRET-CODE")

	_, _, err := svc.Register(context.Background(), "bob@example.com", "pw", "Bob", "wrong")

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	users := &mockUserStore{
		emailExists: func(_ context.Context, _ string) (bool, error) { return true, nil },
	}
	svc := services.NewUserService(users, "secret", "")

	_, _, err := svc.Register(context.Background(), "taken@example.com", "pw", "", "")

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserService_Login_OK(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserStore{
		getByEmail: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := services.NewUserService(users, "secret", "")

	user, token, err := svc.Login(context.Background(), "alice@example.com", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.NotEmpty(t, token)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserStore{
		getByEmail: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := services.NewUserService(users, "secret", "")

	_, _, err = svc.Login(context.Background(), "alice@example.com", "nope")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	users := &mockUserStore{
		getByEmail: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	svc := services.NewUserService(users, "secret", "")

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")

	// Unknown email and wrong password produce the same error class.
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUserService_ValidateJWT_WrongSecret(t *testing.T) {
	issuer := services.NewUserService(&mockUserStore{}, "secret-a", "")
	verifier := services.NewUserService(&mockUserStore{}, "secret-b", "")

	token, err := issuer.GenerateJWT("user-1")
	require.NoError(t, err)

	_, err = verifier.ValidateJWT(token)
	assert.Error(t, err)
}
