package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
	"github.com/passiton/backend/internal/store/memory"
)

type failingUsers struct{}

func (failingUsers) GetUserByID(context.Context, string) (*model.User, error) {
	return nil, errors.New("connection refused")
}

func seedUser(t *testing.T, st *memory.Store) *model.User {
	t.Helper()
	u := &model.User{
		Email:    "alice@example.com",
		Username: "alice",
		FullName: "Alice Original",
	}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func TestResolveEmptyToken(t *testing.T) {
	st := memory.New()
	r := NewSessionResolver(newTestCodec(t), st, nil)

	_, ok, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, st.Calls())
}

func TestResolveReadsCurrentProfile(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	codec := newTestCodec(t)
	u := seedUser(t, st)

	token, err := codec.Issue(model.ClaimsFor(model.UserIdentity(u)), SessionTTL)
	require.NoError(t, err)

	newName := "Alice Renamed"
	verified := true
	_, err = st.UpdateUser(ctx, u.ID, store.UserUpdate{FullName: &newName, Verified: &verified})
	require.NoError(t, err)

	id, ok, err := NewSessionResolver(codec, st, nil).Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, id.IsAdmin())
	assert.Equal(t, u.ID, id.ID())
	assert.Equal(t, "Alice Renamed", id.FullName())
	assert.True(t, id.User.Verified)
}

func TestResolveAdminWithoutStore(t *testing.T) {
	st := memory.New()
	codec := newTestCodec(t)
	token, err := codec.Issue(model.ClaimsFor(model.AdminIdentity("root@example.com")), SessionTTL)
	require.NoError(t, err)

	id, ok, err := NewSessionResolver(codec, st, nil).Resolve(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, model.AdminID, id.ID())
	assert.Equal(t, "root@example.com", id.Email())
	assert.Zero(t, st.Calls())
}

func TestResolveAdminFlagWithRealIDIsNotAdmin(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	codec := newTestCodec(t)
	u := seedUser(t, st)

	token, err := codec.Issue(model.SessionClaims{UserID: u.ID, IsAdmin: true}, SessionTTL)
	require.NoError(t, err)

	id, ok, err := NewSessionResolver(codec, st, nil).Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, id.IsAdmin())
}

func TestResolveDeletedUser(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	codec := newTestCodec(t)
	u := seedUser(t, st)

	token, err := codec.Issue(model.ClaimsFor(model.UserIdentity(u)), SessionTTL)
	require.NoError(t, err)
	require.NoError(t, st.DeleteUser(ctx, u.ID))

	_, ok, err := NewSessionResolver(codec, st, nil).Resolve(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveExpiredToken(t *testing.T) {
	st := memory.New()
	codec := newTestCodec(t)
	u := seedUser(t, st)

	issued := time.Now().Add(-8 * 24 * time.Hour)
	codec.now = func() time.Time { return issued }
	token, err := codec.Issue(model.ClaimsFor(model.UserIdentity(u)), SessionTTL)
	require.NoError(t, err)
	codec.now = time.Now

	_, ok, err := NewSessionResolver(codec, st, nil).Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	codec := newTestCodec(t)
	u := seedUser(t, st)
	token, err := codec.Issue(model.ClaimsFor(model.UserIdentity(u)), SessionTTL)
	require.NoError(t, err)

	r := NewSessionResolver(codec, st, nil)
	first, ok1, err1 := r.Resolve(ctx, token)
	second, ok2, err2 := r.Resolve(ctx, token)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	codec := newTestCodec(t)
	token, err := codec.Issue(model.SessionClaims{UserID: "u-1"}, SessionTTL)
	require.NoError(t, err)

	_, ok, err := NewSessionResolver(codec, failingUsers{}, nil).Resolve(context.Background(), token)
	assert.Error(t, err)
	assert.False(t, ok)
}
