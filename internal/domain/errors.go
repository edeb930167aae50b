package domain

import "errors"

var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidCoupon    = errors.New("invalid coupon code")
	ErrEmptyCouponInput = errors.New("please enter a coupon code")
	ErrInvalidCart      = errors.New("cart fails validation")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrSlotNotFound     = errors.New("cart slot not found")
)
