package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acmedash/invoice-api/internal/models"
	appErrors "github.com/acmedash/invoice-api/pkg/errors"
)

type mockUserRepo struct {
	user *models.User
	err  error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func testAuthService(repo authUserRepository) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "invoice-api-test",
	})
}

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := testAuthService(&mockUserRepo{user: hashedUser(t, "123456")})

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "invoice-api-test", claims.Issuer)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc := testAuthService(&mockUserRepo{user: hashedUser(t, "123456")})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc := testAuthService(&mockUserRepo{err: sql.ErrNoRows})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "123456",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	// Unknown email and wrong password must be indistinguishable.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginRejectsInvalidPayload(t *testing.T) {
	svc := testAuthService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "not-an-email",
		Password: "123456",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := testAuthService(&mockUserRepo{user: hashedUser(t, "123456")})

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "123456",
	})
	require.NoError(t, err)

	other := NewAuthService(&mockUserRepo{}, nil, nil, AuthConfig{
		Secret:     "different-secret",
		Expiration: time.Hour,
		Issuer:     "invoice-api-test",
	})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.Error(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	assert.Error(t, err)
}
