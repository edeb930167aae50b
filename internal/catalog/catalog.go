// Package catalog holds the static, read-only product set the storefront sells.
package catalog

import (
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Catalog struct {
	products []domain.Product
	byID     map[int64]int
}

func New(products ...domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[int64]int, len(products)),
	}

	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product[%d]: id must be positive", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product[%d]: duplicate id", p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product[%d]: name is empty", p.ID)
		}
		if strings.TrimSpace(p.Image) == "" {
			return nil, fmt.Errorf("product[%d]: image is empty", p.ID)
		}
		if p.Price.Amount.IsNegative() {
			return nil, fmt.Errorf("product[%d]: price is negative", p.ID)
		}

		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Default returns the six demo products priced in USD.
func Default() *Catalog {
	return DefaultIn(currency.USD)
}

// DefaultIn returns the demo products with the same amounts in unit.
func DefaultIn(unit currency.Unit) *Catalog {
	c, err := New(
		product(unit, 1, "Product 1", "19.99", "images/product1.jpg"),
		product(unit, 2, "Product 2", "24.99", "images/product2.jpg"),
		product(unit, 3, "Product 3", "29.99", "images/product3.jpg"),
		product(unit, 4, "Product 4", "34.99", "images/product1.jpg"),
		product(unit, 5, "Product 5", "39.99", "images/product2.jpg"),
		product(unit, 6, "Product 6", "44.99", "images/product3.jpg"),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func product(unit currency.Unit, id int64, name, price, image string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Price:       domain.Money{Amount: decimal.RequireFromString(price), Currency: unit},
		Image:       image,
		Description: fmt.Sprintf("%s is part of the demo collection.", name),
	}
}

func (c *Catalog) Product(id int64) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}
