package marketplace

import (
	"context"
	"fmt"

	"github.com/adityarama/pasarkampus/internal/catalog"
)

// CreateProduct adds a product to the seller's own umkm.
func (s *Service) CreateProduct(ctx context.Context, ownerID string, in catalog.NewProductInput) (*catalog.Product, error) {
	u, err := s.UMKMs.Get(ctx, in.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", in.UMKMID, err)
	}
	if u.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: you don't own this umkm", ErrUnauthorized)
	}
	p, err := catalog.NewProduct(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Products.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) ListUMKMProducts(ctx context.Context, umkmID string) ([]*catalog.Product, error) {
	return s.Products.ListByUMKM(ctx, umkmID)
}

func (s *Service) UpdateProductPrice(ctx context.Context, productID, ownerID string, price float64) (*catalog.Product, error) {
	return s.mutateProduct(ctx, productID, ownerID, func(p *catalog.Product) error {
		return p.UpdatePrice(price, s.now())
	})
}

func (s *Service) SetProductStock(ctx context.Context, productID, ownerID string, qty *int) (*catalog.Product, error) {
	return s.mutateProduct(ctx, productID, ownerID, func(p *catalog.Product) error {
		return p.SetStock(qty, s.now())
	})
}

func (s *Service) SetProductAvailability(ctx context.Context, productID, ownerID string, available bool) (*catalog.Product, error) {
	return s.mutateProduct(ctx, productID, ownerID, func(p *catalog.Product) error {
		if available {
			p.MarkAvailable(s.now())
		} else {
			p.MarkUnavailable(s.now())
		}
		return nil
	})
}

// mutateProduct runs an owner-authorized edit through the versioned write
// path. Seller edits race with order reservations like any other write, so a
// conflicting Put just surfaces; sellers retry.
func (s *Service) mutateProduct(ctx context.Context, productID, ownerID string, fn func(*catalog.Product) error) (*catalog.Product, error) {
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}
	u, err := s.UMKMs.Get(ctx, p.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", p.UMKMID, err)
	}
	if u.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: you don't own this product", ErrUnauthorized)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.Products.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
