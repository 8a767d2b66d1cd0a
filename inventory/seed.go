package inventory

import "time"

// Seed returns the initial catalog.
func Seed() []Product {
	return []Product{
		seed("1", "Premium Wireless Headphones", "WH-1000XM4", Electronics, 349.99, 45, "2023-10-24"),
		seed("2", "Smart Home Hub", "SH-HUB-V2", Electronics, 129.00, 8, "2023-10-25"),
		seed("3", "Ergonomic Desk Chair", "CHR-ERG-01", HomeAndLiving, 299.50, 12, "2023-10-20"),
		seed("4", "Running Shoes Pro", "RUN-PRO-42", Apparel, 159.99, 0, "2023-10-26"),
		seed("5", "Mechanical Keyboard", "KB-MECH-RGB", Electronics, 89.99, 25, "2023-10-27"),
		seed("6", "Instant Coffee Maker", "CM-INST-B", HomeAndLiving, 49.99, 3, "2023-10-28"),
	}
}

func seed(id, name, sku string, cat Category, price float64, stock int, day string) Product {
	updated, err := time.Parse(DateLayout, day)
	if err != nil {
		panic(err)
	}
	p, err := NewProduct(id, name, sku, cat, price, stock, updated)
	if err != nil {
		panic(err)
	}
	return p
}
