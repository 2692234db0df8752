package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/passiton/backend/internal/config"
	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store/memory"
)

func newTestAuth(t *testing.T, st *memory.Store, production bool) *AuthService {
	t.Helper()
	svc, err := NewAuthService(st, newTestCodec(t), config.AuthConfig{
		AdminEmail:    "root@example.com",
		AdminPassword: "admin-pass-123",
	}, production, nil)
	require.NoError(t, err)
	return svc
}

func TestLoginAdmin(t *testing.T) {
	st := memory.New()
	svc := newTestAuth(t, st, false)

	token, id, err := svc.Login(context.Background(), "root@example.com", "admin-pass-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, id.IsAdmin())
	assert.Zero(t, st.Calls())

	claims, err := svc.codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, model.AdminID, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestLoginAdminWrongPasswordFallsThrough(t *testing.T) {
	svc := newTestAuth(t, memory.New(), false)

	_, _, err := svc.Login(context.Background(), "root@example.com", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginAdminDisabledWithoutPair(t *testing.T) {
	svc, err := NewAuthService(memory.New(), newTestCodec(t), config.AuthConfig{AdminEmail: "root@example.com"}, false, nil)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "root@example.com", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Email: "bob@example.com", Username: "bob", FullName: "Bob", PasswordHash: string(hash)}
	require.NoError(t, st.CreateUser(ctx, u))

	svc := newTestAuth(t, st, false)

	token, id, err := svc.Login(ctx, "bob@example.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, id.IsAdmin())
	assert.Equal(t, u.ID, id.ID())

	_, _, err = svc.Login(ctx, "bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := newTestAuth(t, st, false)

	token, user, err := svc.Signup(ctx, model.SignupRequest{
		Email:    "carol@example.com",
		Username: "carol",
		Password: "longenough",
		FullName: "Carol C",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.Verified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))

	claims, err := svc.codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := newTestAuth(t, st, false)
	_, _, err := svc.Signup(ctx, model.SignupRequest{
		Email: "taken@example.com", Username: "taken", Password: "longenough", FullName: "Taken",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     model.SignupRequest
		message string
	}{
		{"missing fields", model.SignupRequest{Email: "x@example.com"}, "All fields are required"},
		{"bad email", model.SignupRequest{Email: "not-an-email", Username: "x", Password: "longenough", FullName: "X"}, "Invalid email format"},
		{"short password", model.SignupRequest{Email: "x@example.com", Username: "x", Password: "short", FullName: "X"}, "Password must be at least 8 characters long"},
		{"duplicate email", model.SignupRequest{Email: "taken@example.com", Username: "other", Password: "longenough", FullName: "X"}, "Email already registered"},
		{"duplicate username", model.SignupRequest{Email: "new@example.com", Username: "taken", Password: "longenough", FullName: "X"}, "Username already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := svc.Signup(ctx, tt.req)
			require.Error(t, err)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestCookieConfig(t *testing.T) {
	dev := newTestAuth(t, memory.New(), false).CookieConfig()
	assert.Equal(t, "token", dev.Name)
	assert.Equal(t, "/", dev.Path)
	assert.False(t, dev.Secure)
	assert.Equal(t, http.SameSiteLaxMode, dev.SameSite)
	assert.Equal(t, 7*24*60*60, dev.MaxAge)

	prod := newTestAuth(t, memory.New(), true).CookieConfig()
	assert.True(t, prod.Secure)
}

func TestNewAuthServiceRejectsBadSameSite(t *testing.T) {
	_, err := NewAuthService(memory.New(), newTestCodec(t), config.AuthConfig{CookieSameSite: "sideways"}, false, nil)
	assert.ErrorIs(t, err, ErrMisconfigured)

	_, err = NewAuthService(memory.New(), newTestCodec(t), config.AuthConfig{CookieSameSite: "none"}, false, nil)
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestDummyHashIsUsable(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, passwordHashCost, cost)
	assert.ErrorIs(t, bcrypt.CompareHashAndPassword(dummyHash, []byte("password1")), bcrypt.ErrMismatchedHashAndPassword)

	assert.Panics(t, func() { mustHash("password1", bcrypt.MaxCost+1) })
}
