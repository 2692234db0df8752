package service

import (
	"context"
	"log/slog"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

type UserReader interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionResolver turns a raw session token into an Identity. It never
// caches: profile fields always come from the current user record.
type SessionResolver struct {
	codec *TokenCodec
	users UserReader
	log   *slog.Logger
}

func NewSessionResolver(codec *TokenCodec, users UserReader, log *slog.Logger) *SessionResolver {
	if log == nil {
		log = slog.Default()
	}
	return &SessionResolver{codec: codec, users: users, log: log}
}

// Resolve returns ok=false for every unauthenticated outcome. A non-nil
// error means the user store failed and the outcome is unknown.
func (r *SessionResolver) Resolve(ctx context.Context, raw string) (model.Identity, bool, error) {
	if raw == "" {
		return model.Identity{}, false, nil
	}

	claims, err := r.codec.Verify(raw)
	if err != nil {
		r.log.DebugContext(ctx, "session token rejected", slog.String("reason", err.Error()))
		return model.Identity{}, false, nil
	}

	if claims.IsAdmin && claims.UserID == model.AdminID {
		return model.AdminIdentity(claims.Email), true, nil
	}

	user, err := r.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFound(err) {
			r.log.DebugContext(ctx, "session user not found", slog.String("user_id", claims.UserID))
			return model.Identity{}, false, nil
		}
		return model.Identity{}, false, err
	}
	return model.UserIdentity(user), true, nil
}
