// Package umkm holds the merchant profile aggregate. A UMKM gates whether
// orders may be placed against its products and carries the running review
// rating shown to buyers.
package umkm

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid umkm status transition")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidUMKM       = errors.New("invalid umkm")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

type UMKM struct {
	ID             string
	OwnerID        string
	Name           string
	Description    string
	Location       string
	Phone          string
	Status         Status
	ImageURL       string
	OperatingHours string
	RatingAverage  float64
	RatingCount    int
	SuspendReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RegisterInput struct {
	OwnerID        string
	Name           string
	Description    string
	Location       string
	Phone          string
	ImageURL       string
	OperatingHours string
}

// Register creates a new profile awaiting admin approval.
func Register(in RegisterInput, now time.Time) (*UMKM, error) {
	u := &UMKM{
		ID:             uuid.NewString(),
		OwnerID:        in.OwnerID,
		Name:           in.Name,
		Description:    in.Description,
		Location:       in.Location,
		Phone:          in.Phone,
		Status:         StatusPending,
		ImageURL:       in.ImageURL,
		OperatingHours: in.OperatingHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *UMKM) validate() error {
	if len(u.Name) < 3 {
		return fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidUMKM)
	}
	if len(u.Description) < 10 {
		return fmt.Errorf("%w: description must be at least 10 characters", ErrInvalidUMKM)
	}
	if u.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidUMKM)
	}
	if u.Phone == "" {
		return fmt.Errorf("%w: phone number is required", ErrInvalidUMKM)
	}
	return nil
}

func (u *UMKM) CanAcceptOrders() bool { return u.Status == StatusActive }

// Approve moves a pending profile live. Admin action.
func (u *UMKM) Approve(now time.Time) error {
	if u.Status != StatusPending {
		return fmt.Errorf("%w: cannot approve umkm in status %s", ErrInvalidTransition, u.Status)
	}
	u.Status = StatusActive
	u.UpdatedAt = now
	return nil
}

func (u *UMKM) Suspend(reason string, now time.Time) error {
	if u.Status == StatusClosed {
		return fmt.Errorf("%w: cannot suspend a closed umkm", ErrInvalidTransition)
	}
	u.Status = StatusSuspended
	u.SuspendReason = reason
	u.UpdatedAt = now
	return nil
}

// Close is terminal and allowed from any status.
func (u *UMKM) Close(now time.Time) {
	u.Status = StatusClosed
	u.UpdatedAt = now
}

func (u *UMKM) Reactivate(now time.Time) error {
	if u.Status == StatusClosed {
		return fmt.Errorf("%w: cannot reactivate a closed umkm", ErrInvalidTransition)
	}
	u.Status = StatusActive
	u.UpdatedAt = now
	return nil
}

// RecordRating folds one review score into the running mean.
func (u *UMKM) RecordRating(score int, now time.Time) error {
	if score < 1 || score > 5 {
		return ErrInvalidRating
	}
	total := u.RatingAverage * float64(u.RatingCount)
	u.RatingCount++
	u.RatingAverage = (total + float64(score)) / float64(u.RatingCount)
	u.UpdatedAt = now
	return nil
}

type UpdateInput struct {
	Name           *string
	Description    *string
	Location       *string
	Phone          *string
	OperatingHours *string
	ImageURL       *string
}

func (u *UMKM) UpdateInfo(in UpdateInput, now time.Time) error {
	if in.Name != nil {
		if len(*in.Name) < 3 {
			return fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidUMKM)
		}
		u.Name = *in.Name
	}
	if in.Description != nil {
		if len(*in.Description) < 10 {
			return fmt.Errorf("%w: description must be at least 10 characters", ErrInvalidUMKM)
		}
		u.Description = *in.Description
	}
	if in.Location != nil {
		u.Location = *in.Location
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.OperatingHours != nil {
		u.OperatingHours = *in.OperatingHours
	}
	if in.ImageURL != nil {
		u.ImageURL = *in.ImageURL
	}
	u.UpdatedAt = now
	return nil
}

func (u *UMKM) Clone() *UMKM {
	cp := *u
	return &cp
}
