package cart

import (
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Pricing holds the shop-wide shipping rule. Shipping is free strictly above
// FreeShippingThreshold and for an empty cart, FlatShippingFee otherwise.
type Pricing struct {
	Currency              currency.Unit
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		Currency:              currency.USD,
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		FlatShippingFee:       decimal.RequireFromString("5.99"),
	}
}

// Summarize computes the order breakdown. The total is floored at zero, the
// discount itself is never capped.
func (p Pricing) Summarize(c domain.Cart, discount decimal.Decimal) domain.Summary {
	subtotal := c.Subtotal(p.Currency)

	shipping := domain.ZeroMoney(p.Currency)
	if !c.IsEmpty() && !subtotal.Amount.GreaterThan(p.FreeShippingThreshold) {
		shipping.Amount = p.FlatShippingFee
	}

	total := subtotal.Amount.Add(shipping.Amount).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return domain.Summary{
		ItemCount: c.ItemCount(),
		Subtotal:  subtotal,
		Shipping:  shipping,
		Discount:  domain.Money{Amount: discount, Currency: p.Currency},
		Total:     domain.Money{Amount: total, Currency: p.Currency},
	}
}
