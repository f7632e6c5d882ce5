package marketplace

import (
	"context"
	"fmt"

	"github.com/adityarama/pasarkampus/internal/promo"
)

func (s *Service) CreatePromo(ctx context.Context, ownerID string, in promo.NewPromoInput) (*promo.Promo, error) {
	u, err := s.UMKMs.Get(ctx, in.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", in.UMKMID, err)
	}
	if u.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: you don't own this umkm", ErrUnauthorized)
	}
	p, err := promo.New(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Promos.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CalculateDiscount previews what a promo would take off an order amount.
// Does not consume usage.
func (s *Service) CalculateDiscount(ctx context.Context, promoID string, orderAmount float64) (float64, error) {
	p, err := s.Promos.Get(ctx, promoID)
	if err != nil {
		return 0, fmt.Errorf("promo %s: %w", promoID, err)
	}
	return p.CalculateDiscount(orderAmount, s.now()), nil
}

// ApplyPromo computes the discount and consumes one usage. A promo that does
// not apply yields zero discount and no usage.
func (s *Service) ApplyPromo(ctx context.Context, promoID string, orderAmount float64) (float64, error) {
	p, err := s.Promos.Get(ctx, promoID)
	if err != nil {
		return 0, fmt.Errorf("promo %s: %w", promoID, err)
	}
	d := p.CalculateDiscount(orderAmount, s.now())
	if d == 0 {
		return 0, nil
	}
	if err := p.RecordUsage(s.now()); err != nil {
		return 0, err
	}
	if err := s.Promos.Put(ctx, p); err != nil {
		return 0, err
	}
	return d, nil
}

func (s *Service) SetPromoActive(ctx context.Context, promoID, ownerID string, active bool) (*promo.Promo, error) {
	p, err := s.Promos.Get(ctx, promoID)
	if err != nil {
		return nil, fmt.Errorf("promo %s: %w", promoID, err)
	}
	u, err := s.UMKMs.Get(ctx, p.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", p.UMKMID, err)
	}
	if u.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: you don't own this promo", ErrUnauthorized)
	}
	if active {
		p.Activate(s.now())
	} else {
		p.Deactivate(s.now())
	}
	if err := s.Promos.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListUMKMPromos(ctx context.Context, umkmID string) ([]*promo.Promo, error) {
	return s.Promos.ListByUMKM(ctx, umkmID)
}
