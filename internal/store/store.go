// Package store defines the persistence ports used by the marketplace
// workflow. Implementations: the in-memory store in this package (tests,
// no-database mode) and the postgres stores in internal/postgres.
package store

import (
	"context"
	"errors"

	"github.com/adityarama/pasarkampus/internal/catalog"
	"github.com/adityarama/pasarkampus/internal/orders"
	"github.com/adityarama/pasarkampus/internal/promo"
	"github.com/adityarama/pasarkampus/internal/review"
	"github.com/adityarama/pasarkampus/internal/umkm"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned by ProductStore.Put when the product
	// row changed since it was read. Callers re-read and retry.
	ErrVersionConflict = errors.New("product version conflict")
)

type ProductStore interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
	// Put persists the product if its Version still matches the stored row,
	// then bumps the version. New products must carry Version 0.
	Put(ctx context.Context, p *catalog.Product) error
	ListByUMKM(ctx context.Context, umkmID string) ([]*catalog.Product, error)
}

type UMKMStore interface {
	Get(ctx context.Context, id string) (*umkm.UMKM, error)
	GetByOwner(ctx context.Context, ownerID string) (*umkm.UMKM, error)
	Put(ctx context.Context, u *umkm.UMKM) error
}

type OrderStore interface {
	Get(ctx context.Context, id string) (*orders.Order, error)
	Put(ctx context.Context, o *orders.Order) error
	ListByBuyer(ctx context.Context, buyerID string) ([]*orders.Order, error)
	ListByUMKM(ctx context.Context, umkmID string) ([]*orders.Order, error)
}

type PromoStore interface {
	Get(ctx context.Context, id string) (*promo.Promo, error)
	Put(ctx context.Context, p *promo.Promo) error
	ListByUMKM(ctx context.Context, umkmID string) ([]*promo.Promo, error)
}

type ReviewStore interface {
	Get(ctx context.Context, id string) (*review.Review, error)
	Put(ctx context.Context, r *review.Review) error
	ListByUMKM(ctx context.Context, umkmID string, visibleOnly bool) ([]*review.Review, error)
}
