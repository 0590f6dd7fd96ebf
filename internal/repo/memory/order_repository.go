package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type orderRepository struct {
	mu    sync.RWMutex
	clock clock
	items map[string]domain.Order
}

func NewOrderRepository() domain.OrderRepository {
	return &orderRepository{items: map[string]domain.Order{}}
}

// clone keeps callers from mutating stored line items through a shared slice.
func clone(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func (r *orderRepository) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		o.ID = utils.NewID()
	}
	now := r.clock.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.items[o.ID] = clone(*o)
	return nil
}

func (r *orderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o = clone(o)
	return &o, nil
}

func (r *orderRepository) ListByBuyer(_ context.Context, buyerID string) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.BuyerID == buyerID }), nil
}

func (r *orderRepository) List(_ context.Context) ([]domain.Order, error) {
	return r.list(func(domain.Order) bool { return true }), nil
}

func (r *orderRepository) list(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, 0, len(r.items))
	for _, o := range r.items {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	newestFirst(out, func(o domain.Order) time.Time { return o.CreatedAt }, func(o domain.Order) string { return o.ID })
	return out
}

func (r *orderRepository) UpdateStatus(_ context.Context, id string, st domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = st
	o.UpdatedAt = r.clock.now()
	r.items[id] = o
	o = clone(o)
	return &o, nil
}

func (r *orderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
