package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/review"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func newProduct(t *testing.T) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.NewProductInput{
		UMKMID:        "umkm-1",
		Name:          "Nasi Goreng",
		Description:   "nasi goreng spesial",
		Price:         15000,
		Category:      catalog.CategoryFood,
		StockQuantity: intPtr(10),
	}, t0)
	require.NoError(t, err)
	return p
}

func TestProducts_GetNotFound(t *testing.T) {
	mem := NewMemory()
	_, err := mem.Products().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProducts_PutBumpsVersion(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	p := newProduct(t)

	require.NoError(t, mem.Products().Put(ctx, p))
	assert.Equal(t, 1, p.Version)

	got, err := mem.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)

	require.NoError(t, mem.Products().Put(ctx, got))
	assert.Equal(t, 2, got.Version)
}

func TestProducts_VersionConflict(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	p := newProduct(t)
	require.NoError(t, mem.Products().Put(ctx, p))

	a, err := mem.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	b, err := mem.Products().Get(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, a.Reserve(4, t0))
	require.NoError(t, mem.Products().Put(ctx, a))

	// b was read before a's write landed
	require.NoError(t, b.Reserve(4, t0))
	assert.ErrorIs(t, mem.Products().Put(ctx, b), ErrVersionConflict)

	got, err := mem.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, *got.StockQuantity, "losing write must not be applied")
}

func TestProducts_NewWithStaleVersion(t *testing.T) {
	mem := NewMemory()
	p := newProduct(t)
	p.Version = 3
	assert.ErrorIs(t, mem.Products().Put(context.Background(), p), ErrVersionConflict)
}

func TestProducts_ReadsAreCopies(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	p := newProduct(t)
	require.NoError(t, mem.Products().Put(ctx, p))

	got, err := mem.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	*got.StockQuantity = 0

	again, err := mem.Products().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, *again.StockQuantity)
}

func TestOrders_ListBySecondaryIndexes(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	line, err := orders.NewLine("prod-1", "Nasi Goreng", 1, 15000)
	require.NoError(t, err)

	o1, err := orders.New("buyer-1", "umkm-1", []orders.Line{line}, nil, "", t0)
	require.NoError(t, err)
	o2, err := orders.New("buyer-1", "umkm-2", []orders.Line{line}, nil, "", t0)
	require.NoError(t, err)
	o3, err := orders.New("buyer-2", "umkm-1", []orders.Line{line}, nil, "", t0)
	require.NoError(t, err)

	for _, o := range []*orders.Order{o1, o2, o3} {
		require.NoError(t, mem.Orders().Put(ctx, o))
	}

	byBuyer, err := mem.Orders().ListByBuyer(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Len(t, byBuyer, 2)

	byUMKM, err := mem.Orders().ListByUMKM(ctx, "umkm-1")
	require.NoError(t, err)
	assert.Len(t, byUMKM, 2)
}

func TestReviews_VisibleOnlyFilter(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	visible, err := review.New("user-1", "umkm-1", "", 5, "mantap sekali", t0)
	require.NoError(t, err)
	hidden, err := review.New("user-2", "umkm-1", "", 1, "tidak enak", t0)
	require.NoError(t, err)
	hidden.Hide(t0)

	require.NoError(t, mem.Reviews().Put(ctx, visible))
	require.NoError(t, mem.Reviews().Put(ctx, hidden))

	rs, err := mem.Reviews().ListByUMKM(ctx, "umkm-1", true)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, visible.ID, rs[0].ID)

	all, err := mem.Reviews().ListByUMKM(ctx, "umkm-1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
