package marketplace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityarama/pasarkampus/internal/promo"
)

func (f *fixture) addPromo(t *testing.T, in promo.NewPromoInput) *promo.Promo {
	t.Helper()
	in.UMKMID = f.umkm.ID
	p, err := f.svc.CreatePromo(context.Background(), "owner-1", in)
	require.NoError(t, err)
	return p
}

func TestCreatePromo_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreatePromo(context.Background(), "not-the-owner", promo.NewPromoInput{
		UMKMID:        f.umkm.ID,
		Title:         "Diskon Gajian",
		Description:   "potongan akhir bulan",
		Type:          promo.TypePercentage,
		DiscountValue: 10,
		ValidFrom:     t0.Add(-time.Hour),
		ValidUntil:    t0.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApplyPromo_ConsumesUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addPromo(t, promo.NewPromoInput{
		Title:         "Diskon Gajian",
		Description:   "potongan akhir bulan",
		Type:          promo.TypePercentage,
		DiscountValue: 10,
		ValidFrom:     t0.Add(-time.Hour),
		ValidUntil:    t0.Add(time.Hour),
		MaxDiscount:   floatPtr(2000),
		UsageLimit:    intPtr(2),
	})

	d, err := f.svc.ApplyPromo(ctx, p.ID, 50000)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, d, "10% of 50000 capped at 2000")

	d, err = f.svc.ApplyPromo(ctx, p.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, d)

	// limit reached, promo no longer yields a discount
	d, err = f.svc.ApplyPromo(ctx, p.ID, 10000)
	require.NoError(t, err)
	assert.Zero(t, d)

	got, err := f.svc.Promos.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
}

func TestApplyPromo_BelowMinPurchaseConsumesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addPromo(t, promo.NewPromoInput{
		Title:         "Hemat Anak Kos",
		Description:   "potongan tetap",
		Type:          promo.TypeFixedAmount,
		DiscountValue: 5000,
		ValidFrom:     t0.Add(-time.Hour),
		ValidUntil:    t0.Add(time.Hour),
		MinPurchase:   floatPtr(25000),
	})

	d, err := f.svc.ApplyPromo(ctx, p.ID, 20000)
	require.NoError(t, err)
	assert.Zero(t, d)

	got, err := f.svc.Promos.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.UsageCount)
}

func TestCalculateDiscount_PreviewDoesNotConsume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addPromo(t, promo.NewPromoInput{
		Title:         "Hemat Anak Kos",
		Description:   "potongan tetap",
		Type:          promo.TypeFixedAmount,
		DiscountValue: 5000,
		ValidFrom:     t0.Add(-time.Hour),
		ValidUntil:    t0.Add(time.Hour),
		UsageLimit:    intPtr(1),
	})

	for i := 0; i < 3; i++ {
		d, err := f.svc.CalculateDiscount(ctx, p.ID, 30000)
		require.NoError(t, err)
		assert.Equal(t, 5000.0, d)
	}

	got, err := f.svc.Promos.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.UsageCount)
}

func TestSetPromoActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addPromo(t, promo.NewPromoInput{
		Title:         "Diskon Gajian",
		Description:   "potongan akhir bulan",
		Type:          promo.TypePercentage,
		DiscountValue: 10,
		ValidFrom:     t0.Add(-time.Hour),
		ValidUntil:    t0.Add(time.Hour),
	})

	_, err := f.svc.SetPromoActive(ctx, p.ID, "not-the-owner", false)
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := f.svc.SetPromoActive(ctx, p.ID, "owner-1", false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	d, err := f.svc.ApplyPromo(ctx, p.ID, 50000)
	require.NoError(t, err)
	assert.Zero(t, d, "inactive promo never discounts")
}

func TestListUMKMPromos(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"Promo Senin", "Promo Jumat"} {
		f.addPromo(t, promo.NewPromoInput{
			Title:         title,
			Description:   "promo hari tertentu",
			Type:          promo.TypeFixedAmount,
			DiscountValue: 2000,
			ValidFrom:     t0.Add(-time.Hour),
			ValidUntil:    t0.Add(time.Hour),
		})
	}
	ps, err := f.svc.ListUMKMPromos(context.Background(), f.umkm.ID)
	require.NoError(t, err)
	assert.Len(t, ps, 2)
}
