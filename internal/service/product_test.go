package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/ratelimit"
	"github.com/passiton/backend/internal/store"
	"github.com/passiton/backend/internal/store/memory"
)

func validProduct() model.CreateProductRequest {
	return model.CreateProductRequest{
		Title:    "Engineering Drawing Kit",
		Price:    model.FlexibleInt{Value: 450, Valid: true},
		Category: "Stationery",
		Image:    "https://cdn.example.com/products/kit.png",
		Phone:    "9876543210",
		College:  "Test College",
		State:    "Karnataka",
		City:     "Bengaluru",
	}
}

func newUserIdentity(t *testing.T, st *memory.Store, email, username string, verified bool) model.Identity {
	t.Helper()
	u := &model.User{Email: email, Username: username, FullName: username, Verified: verified}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return model.UserIdentity(u)
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(0), nil)
	id := newUserIdentity(t, st, "seller@example.com", "seller", true)

	req := validProduct()
	req.Title = "  <b>Drafter</b> & scale  "
	p, err := svc.Create(ctx, id, req)
	require.NoError(t, err)
	assert.Equal(t, "Drafter & scale", p.Title)
	assert.Equal(t, "seller@example.com", p.Email)
	assert.Equal(t, id.ID(), p.UserID)
	assert.False(t, p.Featured)
	assert.True(t, p.SellerVerified)
}

func TestSellerVerifiedFollowsAccount(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(0), nil)
	id := newUserIdentity(t, st, "late@example.com", "late", false)

	p, err := svc.Create(ctx, id, validProduct())
	require.NoError(t, err)
	assert.False(t, p.SellerVerified)

	verified := true
	_, err = st.UpdateUser(ctx, id.ID(), store.UserUpdate{Verified: &verified})
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.SellerVerified)
}

func TestCreateProductByAdminIsFeatured(t *testing.T) {
	svc := NewProductService(memory.New(), ratelimit.NewCooldown(0), nil)

	p, err := svc.Create(context.Background(), model.AdminIdentity("root@example.com"), validProduct())
	require.NoError(t, err)
	assert.True(t, p.Featured)
	assert.Equal(t, model.AdminID, p.UserID)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(0), nil)
	id := newUserIdentity(t, st, "seller@example.com", "seller", false)

	tests := []struct {
		name   string
		mutate func(*model.CreateProductRequest)
		field  string
	}{
		{"short title", func(r *model.CreateProductRequest) { r.Title = "ab" }, "title"},
		{"price too low", func(r *model.CreateProductRequest) { r.Price = model.FlexibleInt{Value: 5, Valid: true} }, "price"},
		{"price too high", func(r *model.CreateProductRequest) { r.Price = model.FlexibleInt{Value: 50001, Valid: true} }, "price"},
		{"price not a number", func(r *model.CreateProductRequest) { r.Price = model.FlexibleInt{} }, "price"},
		{"bad phone", func(r *model.CreateProductRequest) { r.Phone = "12345" }, "phone"},
		{"missing city", func(r *model.CreateProductRequest) { r.City = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProduct()
			tt.mutate(&req)
			_, err := svc.Create(ctx, id, req)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateProductCooldown(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(30*time.Second), nil)
	id := newUserIdentity(t, st, "seller@example.com", "seller", false)

	_, err := svc.Create(ctx, id, validProduct())
	require.NoError(t, err)

	_, err = svc.Create(ctx, id, validProduct())
	assert.ErrorIs(t, err, ErrRateLimited)
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Greater(t, rl.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rl.RetryAfter, 30*time.Second)
}

func TestCreateProductQuota(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(0), nil)
	id := newUserIdentity(t, st, "seller@example.com", "seller", false)

	for i := 0; i < maxProductsPerUser; i++ {
		_, err := svc.Create(ctx, id, validProduct())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, id, validProduct())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteProductRequiresOwner(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(0), nil)
	owner := newUserIdentity(t, st, "owner@example.com", "owner", false)
	other := newUserIdentity(t, st, "other@example.com", "other", false)

	p, err := svc.Create(ctx, owner, validProduct())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other, p.ID), ErrNotFound)
	assert.NoError(t, svc.Delete(ctx, owner, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAndCategory(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewProductService(st, ratelimit.NewCooldown(0), nil)
	seller := newUserIdentity(t, st, "seller@example.com", "seller", true)

	req := validProduct()
	req.Title = "C++ Primer (5th ed.)"
	req.Category = "Books"
	_, err := svc.Create(ctx, seller, req)
	require.NoError(t, err)

	other := validProduct()
	other.City = "Mysuru"
	_, err = svc.Create(ctx, model.AdminIdentity("root@example.com"), other)
	require.NoError(t, err)

	got, err := svc.Search(ctx, "c++ primer (5th", "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].SellerVerified)

	got, err = svc.ByCategory(ctx, "BOOKS")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Search(ctx, "kit", "", "Mysuru")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].SellerVerified)

	_, err = svc.Search(ctx, "  ", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMapStoreError(t *testing.T) {
	assert.ErrorIs(t, mapStoreError(store.ErrNotFound), ErrNotFound)
	assert.ErrorIs(t, mapStoreError(store.ErrDuplicate), ErrConflict)
	assert.ErrorIs(t, mapStoreError(store.ErrDuplicate), store.ErrDuplicate)

	boom := errors.New("boom")
	assert.Equal(t, boom, mapStoreError(boom))
}
