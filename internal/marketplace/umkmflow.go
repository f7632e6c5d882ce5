package marketplace

import (
	"context"
	"fmt"

	"github.com/adityarama/pasarkampus/internal/umkm"
)

// RegisterUMKM creates a merchant profile in pending state. One profile per
// owner.
func (s *Service) RegisterUMKM(ctx context.Context, in umkm.RegisterInput) (*umkm.UMKM, error) {
	if existing, err := s.UMKMs.GetByOwner(ctx, in.OwnerID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: owner already has a registered umkm", umkm.ErrInvalidUMKM)
	}
	u, err := umkm.Register(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.UMKMs.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetUMKM(ctx context.Context, id string) (*umkm.UMKM, error) {
	u, err := s.UMKMs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) UpdateUMKM(ctx context.Context, id, ownerID string, in umkm.UpdateInput) (*umkm.UMKM, error) {
	u, err := s.UMKMs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", id, err)
	}
	if u.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: you don't own this umkm", ErrUnauthorized)
	}
	if err := u.UpdateInfo(in, s.now()); err != nil {
		return nil, err
	}
	if err := s.UMKMs.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ApproveUMKM(ctx context.Context, id string) (*umkm.UMKM, error) {
	return s.mutateUMKM(ctx, id, func(u *umkm.UMKM) error { return u.Approve(s.now()) })
}

// SuspendUMKM pauses a merchant. Open orders are left untouched; the open
// question of auto-cancelling them is deliberately not assumed.
func (s *Service) SuspendUMKM(ctx context.Context, id, reason string) (*umkm.UMKM, error) {
	return s.mutateUMKM(ctx, id, func(u *umkm.UMKM) error { return u.Suspend(reason, s.now()) })
}

func (s *Service) ReactivateUMKM(ctx context.Context, id string) (*umkm.UMKM, error) {
	return s.mutateUMKM(ctx, id, func(u *umkm.UMKM) error { return u.Reactivate(s.now()) })
}

func (s *Service) CloseUMKM(ctx context.Context, id string) (*umkm.UMKM, error) {
	return s.mutateUMKM(ctx, id, func(u *umkm.UMKM) error { u.Close(s.now()); return nil })
}

func (s *Service) mutateUMKM(ctx context.Context, id string, fn func(*umkm.UMKM) error) (*umkm.UMKM, error) {
	u, err := s.UMKMs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", id, err)
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := s.UMKMs.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RecordRating folds one review score into the umkm's running average.
// Exposed separately so callers without a full review can still rate.
func (s *Service) RecordRating(ctx context.Context, umkmID string, score int) (*umkm.UMKM, error) {
	return s.mutateUMKM(ctx, umkmID, func(u *umkm.UMKM) error { return u.RecordRating(score, s.now()) })
}
