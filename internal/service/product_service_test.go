package service_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"produce-market/internal/core/cache"
	"produce-market/internal/domain"
	"produce-market/internal/repo/memory"
	"produce-market/internal/service"
)

func price(v float64) *float64 { return &v }

func validProduct() service.ProductInput {
	return service.ProductInput{Name: "Leeks 5kg", Price: price(7.5), Image: "leeks.png", Description: "bundle"}
}

func TestProductCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, f.admin, validProduct())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, f.admin.ID, p.CreatedBy)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.Price)
}

func TestProductCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, f.buyer, validProduct())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	missing := validProduct()
	missing.Image = ""
	_, err = f.products.Create(ctx, f.admin, missing)
	assert.ErrorIs(t, err, domain.ErrValidation)

	noPrice := validProduct()
	noPrice.Price = nil
	_, err = f.products.Create(ctx, f.admin, noPrice)
	assert.ErrorIs(t, err, domain.ErrValidation)

	negative := validProduct()
	negative.Price = price(-1)
	_, err = f.products.Create(ctx, f.admin, negative)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductCreate_DuplicatePerAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := seedUser(t, f.store, "admin2@farm.io", domain.RoleAdmin)

	_, err := f.products.Create(ctx, f.admin, validProduct())
	require.NoError(t, err)

	_, err = f.products.Create(ctx, f.admin, validProduct())
	assert.ErrorIs(t, err, domain.ErrConflict)

	// another admin may list a product with the same name
	_, err = f.products.Create(ctx, second, validProduct())
	assert.NoError(t, err)
}

func TestProductUpdate_PartialMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.Update(ctx, f.admin, f.apples.ID, service.ProductInput{Description: "new season"})
	require.NoError(t, err)
	assert.Equal(t, "Apples 10kg", p.Name)
	assert.Equal(t, 10.0, p.Price)
	assert.Equal(t, "new season", p.Description)

	// zero is an explicit price, not a missing one
	p, err = f.products.Update(ctx, f.admin, f.apples.ID, service.ProductInput{Price: price(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Price)

	_, err = f.products.Update(ctx, f.buyer, f.apples.ID, service.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.products.Update(ctx, f.admin, "missing", service.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Delete(ctx, f.buyer, f.pears.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p, err := f.products.Delete(ctx, f.admin, f.pears.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pears 10kg", p.Name)

	_, err = f.products.Get(ctx, f.pears.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	list, err := f.products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductList_EmptyCatalog(t *testing.T) {
	svc := service.NewProductService(memory.NewProductRepository(), nil, 0, nil)
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// An unreachable redis must not break the catalog.
func TestProductService_DegradesWithoutRedis(t *testing.T) {
	repo := memory.NewProductRepository()
	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	t.Cleanup(func() { _ = c.Close() })
	svc := service.NewProductService(repo, c, 0, nil)
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	ctx := context.Background()

	p, err := svc.Create(ctx, admin, validProduct())
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
