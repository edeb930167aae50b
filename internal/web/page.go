package web

import "strings"

type Page int

const (
	PageGrid Page = iota
	PageProduct
	PageCart
	PageCheckout
)

func (p Page) String() string {
	switch p {
	case PageProduct:
		return "product"
	case PageCart:
		return "cart"
	case PageCheckout:
		return "checkout"
	default:
		return "grid"
	}
}

// PageFor picks the view from a substring of the request path, the same
// signal the static pages use.
func PageFor(path string) Page {
	switch {
	case strings.Contains(path, "cart.html"):
		return PageCart
	case strings.Contains(path, "checkout.html"):
		return PageCheckout
	case strings.Contains(path, "product.html"):
		return PageProduct
	default:
		return PageGrid
	}
}
