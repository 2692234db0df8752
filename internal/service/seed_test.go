package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/passiton/backend/internal/store"
	"github.com/passiton/backend/internal/store/memory"
)

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	first, err := Seed(ctx, st, "demo-password", nil)
	require.NoError(t, err)
	assert.Equal(t, len(demoRecruiters), first.UsersCreated)
	assert.Equal(t, len(demoOpportunities), first.OpportunitiesCreated)
	assert.Zero(t, first.OpportunitiesRemoved)

	second, err := Seed(ctx, st, "demo-password", nil)
	require.NoError(t, err)
	assert.Zero(t, second.UsersCreated)
	assert.Equal(t, int64(len(demoOpportunities)), second.OpportunitiesRemoved)

	n, err := st.CountOpportunities(ctx, store.OpportunityFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoOpportunities)), n)

	u, err := st.GetUserByEmail(ctx, demoRecruiters[0].Email)
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("demo-password")))
}

func TestSeedRejectsShortPassword(t *testing.T) {
	st := memory.New()
	_, err := Seed(context.Background(), st, "short", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, st.Calls())
}
