package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics counts cart store activity. A nil *CartMetrics records nothing.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	restores  *prometheus.CounterVec
	coupons   *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations persisted to the slot.",
	}, []string{"op"})
	restores := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_restores_total",
		Help: "Cart restores by outcome.",
	}, []string{"outcome"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupon_applications_total",
		Help: "Coupon applications by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, restores, coupons)
	return &CartMetrics{
		mutations: mutations,
		restores:  restores,
		coupons:   coupons,
	}
}

func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (c *CartMetrics) IncRestore(outcome string) {
	if c == nil || c.restores == nil {
		return
	}
	c.restores.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (c *CartMetrics) IncCoupon(outcome string) {
	if c == nil || c.coupons == nil {
		return
	}
	c.coupons.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
