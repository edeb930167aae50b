package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront-demo/internal/cart"
	"github.com/nikolayk812/storefront-demo/internal/logger"
	"github.com/nikolayk812/storefront-demo/internal/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Logger  *logger.Logger
	Catalog port.Catalog
	Stores  StoreFactory
	// BaseSlot is prefixed to the session id, defaults to cart.DefaultSlot.
	BaseSlot string
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	// Ping backs /healthz when set.
	Ping func(context.Context) error
}

func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if deps.Stores == nil {
		return nil, fmt.Errorf("store factory is nil")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.BaseSlot == "" {
		deps.BaseSlot = cart.DefaultSlot
	}

	storefront, err := newPages(deps.Logger, deps.Catalog, deps.Stores, deps.BaseSlot)
	if err != nil {
		return nil, fmt.Errorf("newPages: %w", err)
	}

	r := chi.NewRouter()
	r.Use(RequestID(deps.Logger), Logging(deps.Logger), Recoverer(deps.Logger))

	r.Get("/healthz", healthz(deps.Ping))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(Session(deps.Logger))
		r.Handle("/*", storefront)
	})

	return r, nil
}

func healthz(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
