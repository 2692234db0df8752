package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passiton/backend/internal/model"
)

const testSecret = "test-secret-with-enough-length-0123456789"

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSecret)
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	_, err := NewTokenCodec("")
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	claims := model.SessionClaims{
		UserID:   "u-1",
		Email:    "a@example.com",
		Username: "alice",
		FullName: "Alice A",
	}

	token, err := codec.Issue(claims, SessionTTL)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
}

func TestVerifyRejectsFlippedSignature(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(model.SessionClaims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	pos := sigStart + 5
	replacement := byte('A')
	if token[pos] == 'A' {
		replacement = 'B'
	}
	tampered := token[:pos] + string(replacement) + token[pos+1:]

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	other, err := NewTokenCodec("another-secret")
	require.NoError(t, err)
	token, err := other.Issue(model.SessionClaims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	_, err = newTestCodec(t).Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyExpired(t *testing.T) {
	codec := newTestCodec(t)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }

	token, err := codec.Issue(model.SessionClaims{UserID: "u-1"}, SessionTTL)
	require.NoError(t, err)

	codec.now = func() time.Time { return issued.Add(SessionTTL + time.Minute) }
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	codec := newTestCodec(t)
	for _, raw := range []string{"garbage", "a.b.c", "only.two"} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func TestVerifyRejectsNonHMAC(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId":  "admin",
		"isAdmin": true,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestCodec(t).Verify(raw)
	assert.Error(t, err)
}

func TestVerifyMigratesLegacySubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id":      "legacy-1",
		"email":    "old@example.com",
		"username": "old",
		"fullName": "Old Timer",
		"isAdmin":  false,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	got, err := newTestCodec(t).Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "legacy-1", got.UserID)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u-1"})
	raw, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestCodec(t).Verify(raw)
	assert.Error(t, err)
}
