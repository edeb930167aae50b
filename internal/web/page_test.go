package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFor(t *testing.T) {
	tests := []struct {
		path string
		want Page
	}{
		{path: "/", want: PageGrid},
		{path: "/index.html", want: PageGrid},
		{path: "/cart.html", want: PageCart},
		{path: "/shop/cart.html", want: PageCart},
		{path: "/checkout.html", want: PageCheckout},
		{path: "/product.html", want: PageProduct},
		{path: "/favicon.ico", want: PageGrid},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, PageFor(tt.path))
		})
	}
}
