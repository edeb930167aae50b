package cart

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	couponPolicy = bluemonday.StrictPolicy()
	hundred      = decimal.NewFromInt(100)
)

type Coupon struct {
	Code    string
	Percent decimal.Decimal
}

func (c Coupon) DiscountOn(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.Percent).Div(hundred)
}

// CouponBook is the allow-list of recognized codes, keyed case-sensitively.
type CouponBook map[string]Coupon

func DefaultCoupons() CouponBook {
	return CouponBook{
		"SAVE10": {Code: "SAVE10", Percent: decimal.NewFromInt(10)},
	}
}

// Lookup treats raw as untrusted free text. Input that carries markup is
// never a code.
func (b CouponBook) Lookup(raw string) (Coupon, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return Coupon{}, domain.ErrEmptyCouponInput
	}
	if couponPolicy.Sanitize(code) != code {
		return Coupon{}, domain.ErrInvalidCoupon
	}

	coupon, ok := b[code]
	if !ok {
		return Coupon{}, domain.ErrInvalidCoupon
	}

	return coupon, nil
}
