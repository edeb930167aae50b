package port

import (
	"context"

	"github.com/nikolayk812/storefront-demo/internal/domain"
)

// CartSlotRepository stores one serialized cart per key. A put replaces the
// whole value. GetSlot returns domain.ErrSlotNotFound for an absent key.
type CartSlotRepository interface {
	GetSlot(ctx context.Context, key string) ([]byte, error)
	PutSlot(ctx context.Context, key string, payload []byte) error
	DeleteSlot(ctx context.Context, key string) (bool, error)
}

type Catalog interface {
	Product(id int64) (domain.Product, bool)
	Products() []domain.Product
}
