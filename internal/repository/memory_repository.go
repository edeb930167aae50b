package repository

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/nikolayk812/storefront-demo/internal/port"
)

type memoryCartSlotRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemoryCartSlot keeps slots in process memory, they are lost on restart.
func NewMemoryCartSlot() port.CartSlotRepository {
	return &memoryCartSlotRepository{
		slots: make(map[string][]byte),
	}
}

func (r *memoryCartSlotRepository) GetSlot(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	payload, ok := r.slots[key]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}

	return bytes.Clone(payload), nil
}

func (r *memoryCartSlotRepository) PutSlot(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = bytes.Clone(payload)

	return nil
}

func (r *memoryCartSlotRepository) DeleteSlot(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.slots[key]
	delete(r.slots, key)

	return ok, nil
}
