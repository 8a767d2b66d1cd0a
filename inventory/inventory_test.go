package inventory

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedCatalog() *Catalog {
	c := DefaultCatalog()
	c.SetClock(func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) })
	return c
}

func TestSeedStatusesMatchStock(t *testing.T) {
	for _, p := range Seed() {
		if p.Status != StatusFor(p.Stock) {
			t.Fatalf("%s: status %s does not match stock %d", p.ID, p.Status, p.Stock)
		}
	}
	want := map[string]Status{"1": InStock, "2": LowStock, "4": OutOfStock, "6": LowStock}
	for _, p := range Seed() {
		if s, ok := want[p.ID]; ok && p.Status != s {
			t.Fatalf("%s: expected %s, got %s", p.ID, s, p.Status)
		}
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[int]Status{0: OutOfStock, 1: LowStock, 9: LowStock, 10: InStock, 500: InStock}
	for stock, want := range cases {
		if got := StatusFor(stock); got != want {
			t.Fatalf("StatusFor(%d) = %s, want %s", stock, got, want)
		}
	}
}

func TestListSearchAndCategory(t *testing.T) {
	c := fixedCatalog()

	page, err := c.List(Query{Search: "kb-mech"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "5" {
		t.Fatalf("sku search failed: %+v", page)
	}

	page, _ = c.List(Query{Search: "SMART"})
	if page.Total != 1 || page.Items[0].ID != "2" {
		t.Fatalf("name search failed: %+v", page)
	}

	page, _ = c.List(Query{Category: "home & living"})
	if page.Total != 2 {
		t.Fatalf("expected 2 home products, got %d", page.Total)
	}

	page, _ = c.List(Query{Category: AllCategories, Search: "zzz"})
	if page.Total != 0 || page.TotalPages != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}

	if _, err := c.List(Query{Category: "Garden"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	c := fixedCatalog()

	first, _ := c.List(Query{})
	if first.Page != 1 || len(first.Items) != PageSize || first.TotalPages != 2 || first.Total != 6 {
		t.Fatalf("unexpected first page: %+v", first)
	}
	second, _ := c.List(Query{Page: 2})
	if len(second.Items) != 1 || second.Items[0].ID != "6" {
		t.Fatalf("unexpected second page: %+v", second)
	}
	beyond, _ := c.List(Query{Page: 9})
	if len(beyond.Items) != 0 || beyond.Page != 9 {
		t.Fatalf("unexpected page past the end: %+v", beyond)
	}
	huge, err := c.List(Query{Page: 1844674407370955163})
	if err != nil || len(huge.Items) != 0 || huge.TotalPages != 2 {
		t.Fatalf("unexpected page far past the end: %+v, %v", huge, err)
	}
	clamped, _ := c.List(Query{Page: -3})
	if clamped.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", clamped.Page)
	}
}

func TestCreatePrependsAndDerivesStatus(t *testing.T) {
	c := fixedCatalog()

	p, err := c.Create(Draft{Name: "Desk Lamp", SKU: "LMP-01", Stock: 4, Price: 19.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.Category != Electronics || p.Status != LowStock || p.LastUpdated != "2026-03-14" {
		t.Fatalf("unexpected product: %+v", p)
	}
	page, _ := c.List(Query{})
	if page.Items[0].ID != p.ID || page.Total != 7 {
		t.Fatalf("new product not at head: %+v", page.Items[0])
	}

	if _, err := c.Create(Draft{SKU: "X"}); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct without name, got %v", err)
	}
	if _, err := c.Create(Draft{Name: "X", SKU: " "}); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct without sku, got %v", err)
	}
	if c.Count() != 7 {
		t.Fatalf("failed creates must not add products, count=%d", c.Count())
	}
}

func TestUpdateMergesAndRecomputesStatus(t *testing.T) {
	c := fixedCatalog()
	stock := 0
	name := "Headphones II"

	p, err := c.Update("1", Patch{Stock: &stock, Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Status != OutOfStock || p.Name != name || p.SKU != "WH-1000XM4" || p.LastUpdated != "2026-03-14" {
		t.Fatalf("unexpected update result: %+v", p)
	}
	got, _ := c.Get("1")
	if got != p {
		t.Fatalf("stored product differs: %+v", got)
	}

	if _, err := c.Update("missing", Patch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	neg := -1
	if _, err := c.Update("1", Patch{Stock: &neg}); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c := fixedCatalog()
	if err := c.Delete("3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get("3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted product still present: %v", err)
	}
	if err := c.Delete("3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStatusSummary(t *testing.T) {
	sum := fixedCatalog().StatusSummary()
	if sum[InStock] != 3 || sum[LowStock] != 2 || sum[OutOfStock] != 1 {
		t.Fatalf("unexpected summary: %v", sum)
	}
}

func TestProductJSONUsesNames(t *testing.T) {
	data, err := json.Marshal(Seed()[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"category":"Electronics"`) || !strings.Contains(s, `"status":"In Stock"`) {
		t.Fatalf("unexpected json: %s", s)
	}

	var d Draft
	if err := json.Unmarshal([]byte(`{"name":"A","sku":"B","category":"books"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Category != Books {
		t.Fatalf("expected Books, got %s", d.Category)
	}
	if err := json.Unmarshal([]byte(`{"category":"Garden"}`), &d); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
