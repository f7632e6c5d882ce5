package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidProduct    = errors.New("invalid product")
)

type Category string

const (
	CategoryFood        Category = "food"
	CategoryBeverage    Category = "beverage"
	CategorySnack       Category = "snack"
	CategoryMerchandise Category = "merchandise"
	CategoryOther       Category = "other"
)

// Product is a menu item sold by one UMKM. StockQuantity == nil means the
// product has no stock tracking (unlimited).
type Product struct {
	ID               string
	UMKMID           string
	Name             string
	Description      string
	Price            float64
	Category         Category
	ImageURL         string
	StockQuantity    *int
	IsAvailable      bool
	PreorderRequired bool
	MinPreorderHours int
	// Version guards concurrent read-modify-write cycles; stores reject a
	// Put whose version does not match the stored row.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewProductInput struct {
	UMKMID           string
	Name             string
	Description      string
	Price            float64
	Category         Category
	ImageURL         string
	StockQuantity    *int
	PreorderRequired bool
	MinPreorderHours int
}

func NewProduct(in NewProductInput, now time.Time) (*Product, error) {
	p := &Product{
		ID:               uuid.NewString(),
		UMKMID:           in.UMKMID,
		Name:             in.Name,
		Description:      in.Description,
		Price:            in.Price,
		Category:         in.Category,
		ImageURL:         in.ImageURL,
		StockQuantity:    in.StockQuantity,
		IsAvailable:      true,
		PreorderRequired: in.PreorderRequired,
		MinPreorderHours: in.MinPreorderHours,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) validate() error {
	if len(p.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidProduct)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidProduct)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidProduct)
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrInvalidProduct)
	}
	if p.MinPreorderHours < 0 {
		return fmt.Errorf("%w: minimum preorder hours cannot be negative", ErrInvalidProduct)
	}
	return nil
}

// CanReserve reports whether qty units can be taken right now. qty must be
// positive; that is the caller's precondition.
func (p *Product) CanReserve(qty int) bool {
	if !p.IsAvailable {
		return false
	}
	if p.StockQuantity == nil {
		return true
	}
	return *p.StockQuantity >= qty
}

// Reserve decrements stock by qty. The availability check is repeated here
// rather than trusted from an earlier CanReserve call: between checking one
// order line and reserving the next, the same product may have been drained.
func (p *Product) Reserve(qty int, now time.Time) error {
	if p.StockQuantity == nil {
		return nil
	}
	if !p.CanReserve(qty) {
		return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, *p.StockQuantity, qty)
	}
	*p.StockQuantity -= qty
	p.UpdatedAt = now
	return nil
}

// Restore puts qty units back, used when a cancelled order releases its lines.
func (p *Product) Restore(qty int, now time.Time) error {
	if qty <= 0 {
		return fmt.Errorf("%w: restore quantity must be positive", ErrInvalidProduct)
	}
	if p.StockQuantity == nil {
		return nil
	}
	*p.StockQuantity += qty
	p.UpdatedAt = now
	return nil
}

func (p *Product) SetStock(qty *int, now time.Time) error {
	if qty != nil && *qty < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrInvalidProduct)
	}
	p.StockQuantity = qty
	p.UpdatedAt = now
	return nil
}

func (p *Product) UpdatePrice(price float64, now time.Time) error {
	if price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidProduct)
	}
	p.Price = price
	p.UpdatedAt = now
	return nil
}

func (p *Product) MarkAvailable(now time.Time)   { p.IsAvailable = true; p.UpdatedAt = now }
func (p *Product) MarkUnavailable(now time.Time) { p.IsAvailable = false; p.UpdatedAt = now }

// Clone returns a deep copy, so a stored product cannot be mutated through a
// previously returned pointer.
func (p *Product) Clone() *Product {
	cp := *p
	if p.StockQuantity != nil {
		v := *p.StockQuantity
		cp.StockQuantity = &v
	}
	return &cp
}
