package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidProduct is returned when a product fails validation.
	ErrInvalidProduct = errors.New("inventory: invalid product")
	// ErrUnknownCategory is returned for a category outside the closed set.
	ErrUnknownCategory = errors.New("inventory: unknown category")
	// ErrNotFound is returned when no product has the requested id.
	ErrNotFound = errors.New("inventory: product not found")
)

// DateLayout is the format of Product.LastUpdated.
const DateLayout = "2006-01-02"

// Category is the closed set of product categories.
type Category uint8

const (
	Electronics Category = iota + 1
	HomeAndLiving
	Apparel
	Books
	Sports
)

var categoryNames = map[Category]string{
	Electronics:   "Electronics",
	HomeAndLiving: "Home & Living",
	Apparel:       "Apparel",
	Books:         "Books",
	Sports:        "Sports",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{Electronics, HomeAndLiving, Apparel, Books, Sports}
}

// ParseCategory matches a display name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(categoryNames[c], s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrUnknownCategory
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Status is derived from stock; it is never set directly.
type Status uint8

const (
	OutOfStock Status = iota + 1
	LowStock
	InStock
)

// LowStockThreshold is the stock level below which a product is Low Stock.
const LowStockThreshold = 10

// StatusFor returns the status for a stock level.
func StatusFor(stock int) Status {
	switch {
	case stock <= 0:
		return OutOfStock
	case stock < LowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

func (s Status) String() string {
	switch s {
	case OutOfStock:
		return "Out of Stock"
	case LowStock:
		return "Low Stock"
	case InStock:
		return "In Stock"
	default:
		return "Unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Product is one catalog entry.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Status      Status   `json:"status"`
	LastUpdated string   `json:"lastUpdated"`
}

// NewProduct validates the fields and derives Status from stock.
func NewProduct(id, name, sku string, category Category, price float64, stock int, updated time.Time) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		SKU:         strings.TrimSpace(sku),
		Category:    category,
		Price:       price,
		Stock:       stock,
		LastUpdated: updated.Format(DateLayout),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	p.Status = StatusFor(stock)
	return p, nil
}

func (p Product) validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case p.SKU == "":
		return fmt.Errorf("%w: sku is required", ErrInvalidProduct)
	case !p.Category.Valid():
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrUnknownCategory)
	case p.Price < 0:
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must be >= 0", ErrInvalidProduct)
	}
	return nil
}

// Draft is the input of Create.
type Draft struct {
	Name     string   `json:"name"`
	SKU      string   `json:"sku"`
	Category Category `json:"category"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
}

// Patch is the input of Update. Nil fields keep their value.
type Patch struct {
	Name     *string   `json:"name,omitempty"`
	SKU      *string   `json:"sku,omitempty"`
	Category *Category `json:"category,omitempty"`
	Price    *float64  `json:"price,omitempty"`
	Stock    *int      `json:"stock,omitempty"`
}
