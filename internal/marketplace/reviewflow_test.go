package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityarama/pasarkampus/internal/review"
	"github.com/adityarama/pasarkampus/internal/store"
)

func TestCreateReview_FoldsIntoRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-1",
		UMKMID:  f.umkm.ID,
		Rating:  5,
		Comment: "porsinya banyak, harganya ramah",
	})
	require.NoError(t, err)
	assert.True(t, r.IsPositive())

	_, err = f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-2",
		UMKMID:  f.umkm.ID,
		Rating:  3,
		Comment: "lumayan tapi antrinya lama",
	})
	require.NoError(t, err)

	u, err := f.svc.GetUMKM(ctx, f.umkm.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.RatingCount)
	assert.InDelta(t, 4.0, u.RatingAverage, 1e-9)
}

func TestCreateReview_OrderLinkage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Nasi Goreng", 15000, 10)

	o, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		BuyerID: "buyer-1",
		UMKMID:  f.umkm.ID,
		Lines:   []LineInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-1",
		UMKMID:  f.umkm.ID,
		OrderID: "missing",
		Rating:  5,
		Comment: "review untuk pesanan yang tidak ada",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// somebody else's order
	_, err = f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-2",
		UMKMID:  f.umkm.ID,
		OrderID: o.ID,
		Rating:  5,
		Comment: "bukan pesanan saya sebenarnya",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	r, err := f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-1",
		UMKMID:  f.umkm.ID,
		OrderID: o.ID,
		Rating:  4,
		Comment: "sesuai pesanan, datang tepat waktu",
	})
	require.NoError(t, err)
	assert.Equal(t, o.ID, r.OrderID)

	u, err := f.svc.GetUMKM(ctx, f.umkm.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.RatingCount, "rejected reviews must not touch the rating")
}

func TestCreateReview_UMKMMismatchedOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "Nasi Goreng", 15000, 10)

	o, err := f.svc.CreateOrder(ctx, CreateOrderInput{
		BuyerID: "buyer-1",
		UMKMID:  f.umkm.ID,
		Lines:   []LineInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	other, err := f.svc.RegisterUMKM(ctx, registerInput("owner-2", "Kedai Kopi Pak Budi"))
	require.NoError(t, err)

	_, err = f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-1",
		UMKMID:  other.ID,
		OrderID: o.ID,
		Rating:  5,
		Comment: "salah alamat review ini",
	})
	assert.ErrorIs(t, err, review.ErrInvalidReview)
}

func TestUpdateReview_AuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-1",
		UMKMID:  f.umkm.ID,
		Rating:  2,
		Comment: "pesanan saya tertukar",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateReview(ctx, r.ID, "buyer-2", 5, "saya suka sekali tempat ini")
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := f.svc.UpdateReview(ctx, r.ID, "buyer-1", 4, "sudah diganti, pelayanannya baik")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
}

func TestReviewModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.CreateReview(ctx, CreateReviewInput{
		UserID:  "buyer-1",
		UMKMID:  f.umkm.ID,
		Rating:  1,
		Comment: "komentar yang dilaporkan penjual",
	})
	require.NoError(t, err)

	_, err = f.svc.FlagReview(ctx, r.ID)
	require.NoError(t, err)
	hidden, err := f.svc.HideReview(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, hidden.IsVisible)

	visible, err := f.svc.ListUMKMReviews(ctx, f.umkm.ID, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	shown, err := f.svc.ShowReview(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, shown.IsVisible)
	assert.False(t, shown.IsFlagged)

	visible, err = f.svc.ListUMKMReviews(ctx, f.umkm.ID, true)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
