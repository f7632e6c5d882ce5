package marketplace

import (
	"context"
	"fmt"

	"github.com/adityarama/pasarkampus/internal/review"
)

type CreateReviewInput struct {
	UserID  string
	UMKMID  string
	OrderID string // optional
	Rating  int
	Comment string
}

// CreateReview stores the review and folds its score into the umkm's running
// rating. When linked to an order, the order must exist, belong to the
// author and to the reviewed umkm.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (*review.Review, error) {
	u, err := s.UMKMs.Get(ctx, in.UMKMID)
	if err != nil {
		return nil, fmt.Errorf("umkm %s: %w", in.UMKMID, err)
	}

	if in.OrderID != "" {
		o, err := s.Orders.Get(ctx, in.OrderID)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", in.OrderID, err)
		}
		if o.BuyerID != in.UserID {
			return nil, fmt.Errorf("%w: you can only review orders you made", ErrUnauthorized)
		}
		if o.UMKMID != in.UMKMID {
			return nil, fmt.Errorf("%w: order does not belong to this umkm", review.ErrInvalidReview)
		}
	}

	r, err := review.New(in.UserID, in.UMKMID, in.OrderID, in.Rating, in.Comment, s.now())
	if err != nil {
		return nil, err
	}

	if err := u.RecordRating(in.Rating, s.now()); err != nil {
		return nil, err
	}
	if err := s.UMKMs.Put(ctx, u); err != nil {
		return nil, err
	}
	if err := s.Reviews.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) UpdateReview(ctx context.Context, reviewID, userID string, rating int, comment string) (*review.Review, error) {
	r, err := s.Reviews.Get(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, err)
	}
	if r.UserID != userID {
		return nil, fmt.Errorf("%w: you can only update your own reviews", ErrUnauthorized)
	}
	if err := r.UpdateContent(rating, comment, s.now()); err != nil {
		return nil, err
	}
	if err := s.Reviews.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) FlagReview(ctx context.Context, reviewID string) (*review.Review, error) {
	return s.mutateReview(ctx, reviewID, func(r *review.Review) { r.Flag(s.now()) })
}

func (s *Service) HideReview(ctx context.Context, reviewID string) (*review.Review, error) {
	return s.mutateReview(ctx, reviewID, func(r *review.Review) { r.Hide(s.now()) })
}

func (s *Service) ShowReview(ctx context.Context, reviewID string) (*review.Review, error) {
	return s.mutateReview(ctx, reviewID, func(r *review.Review) { r.Show(s.now()) })
}

func (s *Service) mutateReview(ctx context.Context, reviewID string, fn func(*review.Review)) (*review.Review, error) {
	r, err := s.Reviews.Get(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, err)
	}
	fn(r)
	if err := s.Reviews.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListUMKMReviews(ctx context.Context, umkmID string, visibleOnly bool) ([]*review.Review, error) {
	return s.Reviews.ListByUMKM(ctx, umkmID, visibleOnly)
}
