package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityarama/pasarkampus/internal/catalog"
)

func TestCreateProduct_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := catalog.NewProductInput{
		UMKMID:      f.umkm.ID,
		Name:        "Mie Ayam",
		Description: "mie ayam pangsit komplit",
		Price:       13000,
		Category:    catalog.CategoryFood,
	}

	_, err := f.svc.CreateProduct(ctx, "not-the-owner", in)
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err := f.svc.CreateProduct(ctx, "owner-1", in)
	require.NoError(t, err)
	assert.True(t, p.IsAvailable)
	assert.Nil(t, p.StockQuantity)

	listed, err := f.svc.ListUMKMProducts(ctx, f.umkm.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestUpdateProductPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Mie Ayam", 13000, 10)

	_, err := f.svc.UpdateProductPrice(ctx, p.ID, "not-the-owner", 14000)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.UpdateProductPrice(ctx, p.ID, "owner-1", -1)
	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)

	got, err := f.svc.UpdateProductPrice(ctx, p.ID, "owner-1", 14000)
	require.NoError(t, err)
	assert.Equal(t, 14000.0, got.Price)
}

func TestSetProductStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Mie Ayam", 13000, 10)

	got, err := f.svc.SetProductStock(ctx, p.ID, "owner-1", intPtr(3))
	require.NoError(t, err)
	require.NotNil(t, got.StockQuantity)
	assert.Equal(t, 3, *got.StockQuantity)

	// switch to unlimited
	got, err = f.svc.SetProductStock(ctx, p.ID, "owner-1", nil)
	require.NoError(t, err)
	assert.Nil(t, got.StockQuantity)

	neg := -1
	_, err = f.svc.SetProductStock(ctx, p.ID, "owner-1", &neg)
	assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
}

func TestSetProductAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Mie Ayam", 13000, 10)

	got, err := f.svc.SetProductAvailability(ctx, p.ID, "owner-1", false)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	got, err = f.svc.SetProductAvailability(ctx, p.ID, "owner-1", true)
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)
}
