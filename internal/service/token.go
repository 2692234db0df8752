package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/passiton/backend/internal/model"
)

// SessionTTL is the lifetime of every session token and of the cookie that
// carries it.
const SessionTTL = 7 * 24 * time.Hour

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

type sessionClaims struct {
	UserID string `json:"userId,omitempty"`
	// LegacyID is the subject field written by older signup tokens.
	LegacyID string `json:"_id,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens. It performs no I/O.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	return &TokenCodec{secret: []byte(secret), now: time.Now}, nil
}

func (c *TokenCodec) Issue(claims model.SessionClaims, ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		FullName: claims.FullName,
		IsAdmin:  claims.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the canonical claims.
// The returned error is one of ErrTokenMalformed, ErrTokenSignature or
// ErrTokenExpired.
func (c *TokenCodec) Verify(raw string) (model.SessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.SessionClaims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
			return model.SessionClaims{}, ErrTokenSignature
		default:
			return model.SessionClaims{}, ErrTokenMalformed
		}
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.LegacyID
	}
	if userID == "" {
		return model.SessionClaims{}, ErrTokenMalformed
	}

	return model.SessionClaims{
		UserID:   userID,
		Email:    claims.Email,
		Username: claims.Username,
		FullName: claims.FullName,
		IsAdmin:  claims.IsAdmin,
	}, nil
}
