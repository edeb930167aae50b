package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/nikolayk812/storefront-demo/internal/cart"
	"github.com/nikolayk812/storefront-demo/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

type productView struct {
	ID          int64
	Name        string
	Price       string
	Image       string
	Description string
}

type lineView struct {
	ID       int64
	Name     string
	Image    string
	Price    string
	Total    string
	Quantity int
}

type summaryView struct {
	ItemCount   int
	Subtotal    string
	Shipping    string
	Discount    string
	Total       string
	HasDiscount bool
	CanCheckout bool
}

type pageData struct {
	Title    string
	Badge    int
	Flash    string
	Products []productView
	Product  *productView
	Lines    []lineView
	Summary  summaryView
}

func parseTemplates() (map[Page]*template.Template, error) {
	files := map[Page]string{
		PageGrid:     "templates/grid.html",
		PageProduct:  "templates/product.html",
		PageCart:     "templates/cart.html",
		PageCheckout: "templates/checkout.html",
	}

	out := make(map[Page]*template.Template, len(files))
	for page, file := range files {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("template.ParseFS[%s]: %w", file, err)
		}
		out[page] = tmpl
	}

	return out, nil
}

func newProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.String(),
		Image:       p.Image,
		Description: p.Description,
	}
}

func newPageData(title string, snapshot cart.Snapshot) pageData {
	lines := make([]lineView, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		lines = append(lines, lineView{
			ID:       item.ProductID,
			Name:     item.Name,
			Image:    item.Image,
			Price:    item.Price.String(),
			Total:    item.Total().String(),
			Quantity: item.Quantity,
		})
	}

	s := snapshot.Summary
	shipping := s.Shipping.String()
	if s.FreeShipping() {
		shipping = "FREE"
	}

	return pageData{
		Title: title,
		Badge: s.ItemCount,
		Lines: lines,
		Summary: summaryView{
			ItemCount:   s.ItemCount,
			Subtotal:    s.Subtotal.String(),
			Shipping:    shipping,
			Discount:    s.Discount.String(),
			Total:       s.Total.String(),
			HasDiscount: s.Discount.Amount.IsPositive(),
			CanCheckout: s.ItemCount > 0,
		},
	}
}
