package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-demo/internal/db"
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/nikolayk812/storefront-demo/internal/port"
)

type cartSlotRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCartSlot(pool *pgxpool.Pool) port.CartSlotRepository {
	return &cartSlotRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartSlotWithTx(tx pgx.Tx) port.CartSlotRepository {
	return &cartSlotRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartSlotRepository) GetSlot(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	payload, err := r.q.GetCartSlot(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetCartSlot: %w", err)
	}

	return []byte(payload), nil
}

func (r *cartSlotRepository) PutSlot(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		// writers of the same slot queue up until commit
		if err := q.LockCartSlot(ctx, key); err != nil {
			return struct{}{}, fmt.Errorf("q.LockCartSlot: %w", err)
		}

		err := q.UpsertCartSlot(ctx, db.UpsertCartSlotParams{
			SlotKey: key,
			Payload: string(payload),
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("q.UpsertCartSlot: %w", err)
		}

		return struct{}{}, nil
	})

	return err
}

func (r *cartSlotRepository) DeleteSlot(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	rowsAffected, err := r.q.DeleteCartSlot(ctx, key)
	if err != nil {
		return false, fmt.Errorf("q.DeleteCartSlot: %w", err)
	}

	return rowsAffected > 0, nil
}
