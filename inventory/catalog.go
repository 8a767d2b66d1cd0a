package inventory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PageSize is the number of products per list page.
const PageSize = 5

// AllCategories is the category filter value that matches everything.
const AllCategories = "All"

// Query selects a page of the catalog.
type Query struct {
	// Search matches name or SKU, case-insensitively.
	Search string
	// Category is a category name, "All" or empty.
	Category string
	// Page is 1-based; values below 1 mean 1.
	Page int
}

// Page is one page of query results.
type Page struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}

// Catalog is the in-memory product list, newest first.
type Catalog struct {
	mu    sync.RWMutex
	items []Product
	now   func() time.Time
	newID func() string
}

// NewCatalog returns a catalog holding a copy of seed.
func NewCatalog(seed []Product) *Catalog {
	items := make([]Product, len(seed))
	copy(items, seed)
	return &Catalog{
		items: items,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// DefaultCatalog returns a catalog holding [Seed].
func DefaultCatalog() *Catalog {
	return NewCatalog(Seed())
}

// SetClock overrides the clock used to stamp LastUpdated.
func (c *Catalog) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// List returns the page of products matching q. An unknown category is an error.
func (c *Catalog) List(q Query) (Page, error) {
	var (
		filterCat Category
		anyCat    = q.Category == "" || strings.EqualFold(q.Category, AllCategories)
	)
	if !anyCat {
		cat, err := ParseCategory(q.Category)
		if err != nil {
			return Page{}, err
		}
		filterCat = cat
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))

	c.mu.RLock()
	matched := make([]Product, 0, len(c.items))
	for _, p := range c.items {
		if !anyCat && p.Category != filterCat {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.SKU), term) {
			continue
		}
		matched = append(matched, p)
	}
	c.mu.RUnlock()

	page := q.Page
	if page < 1 {
		page = 1
	}
	out := Page{
		Items:      []Product{},
		Page:       page,
		PerPage:    PageSize,
		Total:      len(matched),
		TotalPages: (len(matched) + PageSize - 1) / PageSize,
	}
	if page > out.TotalPages {
		return out, nil
	}
	start := (page - 1) * PageSize
	if start < len(matched) {
		end := min(start+PageSize, len(matched))
		out.Items = matched[start:end]
	}
	return out, nil
}

// Get returns the product with id.
func (c *Catalog) Get(id string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.items[i], nil
	}
	return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create adds a product at the head of the catalog. Name and SKU are required; a
// zero category defaults to Electronics.
func (c *Catalog) Create(d Draft) (Product, error) {
	if d.Category == 0 {
		d.Category = Electronics
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := NewProduct(c.newID(), d.Name, d.SKU, d.Category, d.Price, d.Stock, c.now())
	if err != nil {
		return Product{}, err
	}
	c.items = append([]Product{p}, c.items...)
	return p, nil
}

// Update merges patch into the product with id, restamps it and recomputes its status.
func (c *Catalog) Update(id string, patch Patch) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	cur := c.items[i]
	if patch.Name != nil {
		cur.Name = *patch.Name
	}
	if patch.SKU != nil {
		cur.SKU = *patch.SKU
	}
	if patch.Category != nil {
		cur.Category = *patch.Category
	}
	if patch.Price != nil {
		cur.Price = *patch.Price
	}
	if patch.Stock != nil {
		cur.Stock = *patch.Stock
	}

	next, err := NewProduct(cur.ID, cur.Name, cur.SKU, cur.Category, cur.Price, cur.Stock, c.now())
	if err != nil {
		return Product{}, err
	}
	c.items[i] = next
	return next, nil
}

// Delete removes the product with id.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Count returns the number of products.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// StatusSummary counts products per status.
func (c *Catalog) StatusSummary() map[Status]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := map[Status]int{InStock: 0, LowStock: 0, OutOfStock: 0}
	for _, p := range c.items {
		out[p.Status]++
	}
	return out
}

func (c *Catalog) indexOf(id string) int {
	for i, p := range c.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
