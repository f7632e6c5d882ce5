package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidReview = errors.New("invalid review")

type Review struct {
	ID        string
	UserID    string
	UMKMID    string
	OrderID   string // optional linkage to the reviewed order
	Rating    int
	Comment   string
	IsVisible bool
	IsFlagged bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(userID, umkmID, orderID string, rating int, comment string, now time.Time) (*Review, error) {
	r := &Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		UMKMID:    umkmID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   comment,
		IsVisible: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validate(rating, comment); err != nil {
		return nil, err
	}
	return r, nil
}

func validate(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	if len(comment) < 5 {
		return fmt.Errorf("%w: comment must be at least 5 characters", ErrInvalidReview)
	}
	if len(comment) > 1000 {
		return fmt.Errorf("%w: comment cannot exceed 1000 characters", ErrInvalidReview)
	}
	return nil
}

func (r *Review) IsPositive() bool { return r.Rating >= 4 }

func (r *Review) Flag(now time.Time) {
	r.IsFlagged = true
	r.UpdatedAt = now
}

// Hide removes the review from public listings. Admin action.
func (r *Review) Hide(now time.Time) {
	r.IsVisible = false
	r.UpdatedAt = now
}

// Show restores a hidden review and clears the moderation flag.
func (r *Review) Show(now time.Time) {
	r.IsVisible = true
	r.IsFlagged = false
	r.UpdatedAt = now
}

func (r *Review) UpdateContent(rating int, comment string, now time.Time) error {
	if err := validate(rating, comment); err != nil {
		return err
	}
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = now
	return nil
}

func (r *Review) Clone() *Review {
	cp := *r
	return &cp
}
