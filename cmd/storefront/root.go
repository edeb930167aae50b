package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/storefront-demo/internal/cart"
	"github.com/nikolayk812/storefront-demo/internal/catalog"
	"github.com/nikolayk812/storefront-demo/internal/config"
	"github.com/nikolayk812/storefront-demo/internal/logger"
	"github.com/nikolayk812/storefront-demo/internal/metrics"
	"github.com/nikolayk812/storefront-demo/internal/port"
	"github.com/nikolayk812/storefront-demo/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const serviceName = "storefront"

// app carries what every subcommand needs once the environment is loaded.
type app struct {
	envFile string

	cfg      *config.Config
	logg     *logger.Logger
	catalog  *catalog.Catalog
	registry *prometheus.Registry
	metrics  *metrics.CartMetrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront demo: product catalog and a persisted shopping cart",
		Long: `Storefront serves the demo shop over HTTP and drives the same cart
from the terminal.

Storage is selected with STOREFRONT_STORAGE_DRIVER (memory, postgres, redis, sqlite).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the environment")

	root.AddCommand(
		newServeCmd(a),
		newProductsCmd(a),
		newCartCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	ctx := cmd.Context()

	if err := godotenv.Load(a.envFile); err != nil {
		boot := logger.New(logger.Options{
			ServiceName: serviceName,
			Level:       logger.ParseLevel("info"),
			Output:      cmd.ErrOrStderr(),
		})
		boot.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	a.cfg = cfg
	a.logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Output:      cmd.ErrOrStderr(),
	})
	a.catalog = catalog.DefaultIn(cfg.Shop.CurrencyUnit())

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.NewCartMetrics(a.registry)

	return nil
}

func (a *app) pricing() cart.Pricing {
	return cart.Pricing{
		Currency:              a.cfg.Shop.CurrencyUnit(),
		FreeShippingThreshold: a.cfg.Shop.FreeShippingThreshold,
		FlatShippingFee:       a.cfg.Shop.FlatShippingFee,
	}
}

func (a *app) stores(repo port.CartSlotRepository) web.StoreFactory {
	pricing := a.pricing()

	return func(slot string) (*cart.Store, error) {
		return cart.NewStore(cart.StoreParams{
			Repo:    repo,
			Catalog: a.catalog,
			Slot:    slot,
			Pricing: pricing,
			Logger:  a.logg,
			Metrics: a.metrics,
		})
	}
}
