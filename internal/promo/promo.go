// Package promo evaluates merchant promotions against order totals.
package promo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPromo      = errors.New("invalid promo")
	ErrUsageLimitReached = errors.New("promo usage limit exceeded")
)

type Type string

const (
	TypePercentage   Type = "percentage"
	TypeFixedAmount  Type = "fixed_amount"
	TypeBuyOneGetOne Type = "buy_one_get_one"
)

type Promo struct {
	ID          string
	UMKMID      string
	Title       string
	Description string
	Type        Type
	// DiscountValue is a percentage in (0,100] for percentage promos, an
	// absolute amount for fixed promos.
	DiscountValue float64
	ValidFrom     time.Time
	ValidUntil    time.Time
	Code          string
	MinPurchase   *float64
	MaxDiscount   *float64
	UsageLimit    *int
	UsageCount    int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type NewPromoInput struct {
	UMKMID        string
	Title         string
	Description   string
	Type          Type
	DiscountValue float64
	ValidFrom     time.Time
	ValidUntil    time.Time
	Code          string
	MinPurchase   *float64
	MaxDiscount   *float64
	UsageLimit    *int
}

func New(in NewPromoInput, now time.Time) (*Promo, error) {
	p := &Promo{
		ID:            uuid.NewString(),
		UMKMID:        in.UMKMID,
		Title:         in.Title,
		Description:   in.Description,
		Type:          in.Type,
		DiscountValue: in.DiscountValue,
		ValidFrom:     in.ValidFrom,
		ValidUntil:    in.ValidUntil,
		Code:          in.Code,
		MinPurchase:   in.MinPurchase,
		MaxDiscount:   in.MaxDiscount,
		UsageLimit:    in.UsageLimit,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Promo) validate() error {
	if len(p.Title) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", ErrInvalidPromo)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidPromo)
	}
	if !p.ValidFrom.Before(p.ValidUntil) {
		return fmt.Errorf("%w: valid_from must be before valid_until", ErrInvalidPromo)
	}
	switch p.Type {
	case TypePercentage:
		if p.DiscountValue <= 0 || p.DiscountValue > 100 {
			return fmt.Errorf("%w: percentage discount must be in (0,100]", ErrInvalidPromo)
		}
	case TypeFixedAmount:
		if p.DiscountValue <= 0 {
			return fmt.Errorf("%w: fixed discount must be positive", ErrInvalidPromo)
		}
	case TypeBuyOneGetOne:
		// No discount-value constraint; discount logic is not implemented.
	default:
		return fmt.Errorf("%w: unknown promo type %q", ErrInvalidPromo, p.Type)
	}
	if p.UsageLimit != nil && *p.UsageLimit < 0 {
		return fmt.Errorf("%w: usage limit cannot be negative", ErrInvalidPromo)
	}
	return nil
}

// IsValid checks the activation flag, validity window and usage limit.
func (p *Promo) IsValid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.ValidFrom) || now.After(p.ValidUntil) {
		return false
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return false
	}
	return true
}

func (p *Promo) CanApply(orderAmount float64, now time.Time) bool {
	if !p.IsValid(now) {
		return false
	}
	if p.MinPurchase != nil && orderAmount < *p.MinPurchase {
		return false
	}
	return true
}

// CalculateDiscount returns the discount for an order total, zero when the
// promo does not apply. BOGO promos always yield zero: the source system
// never defined their discount rule and neither do we.
func (p *Promo) CalculateDiscount(orderAmount float64, now time.Time) float64 {
	if !p.CanApply(orderAmount, now) {
		return 0
	}
	switch p.Type {
	case TypePercentage:
		d := orderAmount * p.DiscountValue / 100
		if p.MaxDiscount != nil && d > *p.MaxDiscount {
			d = *p.MaxDiscount
		}
		return d
	case TypeFixedAmount:
		if p.DiscountValue > orderAmount {
			return orderAmount
		}
		return p.DiscountValue
	}
	return 0
}

func (p *Promo) RecordUsage(now time.Time) error {
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return ErrUsageLimitReached
	}
	p.UsageCount++
	p.UpdatedAt = now
	return nil
}

func (p *Promo) Activate(now time.Time)   { p.IsActive = true; p.UpdatedAt = now }
func (p *Promo) Deactivate(now time.Time) { p.IsActive = false; p.UpdatedAt = now }

func (p *Promo) Clone() *Promo {
	cp := *p
	if p.MinPurchase != nil {
		v := *p.MinPurchase
		cp.MinPurchase = &v
	}
	if p.MaxDiscount != nil {
		v := *p.MaxDiscount
		cp.MaxDiscount = &v
	}
	if p.UsageLimit != nil {
		v := *p.UsageLimit
		cp.UsageLimit = &v
	}
	return &cp
}
