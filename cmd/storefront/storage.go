package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-demo/internal/config"
	"github.com/nikolayk812/storefront-demo/internal/logger"
	"github.com/nikolayk812/storefront-demo/internal/migrations"
	"github.com/nikolayk812/storefront-demo/internal/port"
	"github.com/nikolayk812/storefront-demo/internal/repository"
	"github.com/redis/go-redis/v9"
)

// storage is the opened slot backend. Close releases the underlying client.
type storage struct {
	repo  port.CartSlotRepository
	ping  func(context.Context) error
	close func() error
}

func (s *storage) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*storage, error) {
	ctx = logg.WithField(ctx, "driver", cfg.Storage.Driver)

	var (
		s   *storage
		err error
	)
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		s = &storage{repo: repository.NewMemoryCartSlot()}
	case config.DriverPostgres:
		s, err = openPostgres(ctx, cfg.Postgres, logg)
	case config.DriverRedis:
		s, err = openRedis(ctx, cfg.Redis)
	case config.DriverSQLite:
		s, err = openSQLite(ctx, cfg.SQLite)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	logg.Debug(ctx, "storage opened")
	return s, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, logg *logger.Logger) (*storage, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations.Up: %w", err)
		}
		logg.Info(ctx, "migrations applied")
	}

	return &storage{
		repo: repository.NewCartSlot(pool),
		ping: pool.Ping,
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*storage, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &storage{
		repo: repository.NewRedisCartSlot(client, cfg.Namespace),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		close: client.Close,
	}, nil
}

func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func openSQLite(ctx context.Context, cfg config.SQLiteConfig) (*storage, error) {
	slots, err := repository.OpenSQLiteCartSlot(ctx, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("repository.OpenSQLiteCartSlot: %w", err)
	}

	return &storage{
		repo:  slots,
		ping:  slots.Ping,
		close: slots.Close,
	}, nil
}
