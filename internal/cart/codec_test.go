package cart

import (
	"testing"

	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestEncodeItems(t *testing.T) {
	items := []domain.LineItem{{
		ProductID: 1,
		Name:      "Product 1",
		Price:     domain.Money{Amount: decimal.RequireFromString("19.99"), Currency: currency.USD},
		Image:     "images/product1.jpg",
		Quantity:  2,
	}}

	payload, err := encodeItems(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Product 1","price":19.99,"image":"images/product1.jpg","quantity":2}]`, string(payload))

	empty, err := encodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestDecodeItemsErrors(t *testing.T) {
	tests := []struct {
		name            string
		payload         string
		wantUnparseable bool
		wantError       string
	}{
		{name: "truncated", payload: `[{"id":1`, wantUnparseable: true},
		{name: "empty", payload: ``, wantUnparseable: true},
		{name: "object", payload: `{}`, wantError: "payload is not an array: cart fails validation"},
		{name: "array of numbers", payload: `[1,2]`, wantError: "item[0]: not an object: cart fails validation"},
		{name: "fractional id", payload: `[{"id":1.5,"name":"a","price":1,"image":"a","quantity":1}]`, wantError: "item[0]: id is not an integer: cart fails validation"},
		{name: "string id", payload: `[{"id":"1","name":"a","price":1,"image":"a","quantity":1}]`, wantError: "item[0]: id is not an integer: cart fails validation"},
		{name: "bool price", payload: `[{"id":1,"name":"a","price":true,"image":"a","quantity":1}]`, wantError: "item[0]: price is not numeric: cart fails validation"},
		{name: "abc price", payload: `[{"id":1,"name":"a","price":"abc","image":"a","quantity":1}]`, wantError: `item[0]: price "abc" is not numeric: cart fails validation`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeItems([]byte(tt.payload), currency.USD)
			if tt.wantUnparseable {
				require.ErrorIs(t, err, errUnparseable)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidCart)
			require.EqualError(t, err, tt.wantError)
		})
	}
}

func TestValidateItemsCurrency(t *testing.T) {
	items := []domain.LineItem{{
		ProductID: 1,
		Name:      "Product 1",
		Price:     domain.Money{Amount: decimal.NewFromInt(1), Currency: currency.EUR},
		Image:     "a.jpg",
		Quantity:  1,
	}}

	err := validateItems(items, currency.USD)
	require.ErrorIs(t, err, domain.ErrInvalidCart)
}
