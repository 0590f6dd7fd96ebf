package memory

import (
	"context"
	"sync"
	"time"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type productRepository struct {
	mu    sync.RWMutex
	clock clock
	items map[string]domain.Product
}

func NewProductRepository() domain.ProductRepository {
	return &productRepository{items: map[string]domain.Product{}}
}

func (r *productRepository) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = utils.NewID()
	}
	now := r.clock.now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.items[p.ID] = *p
	return nil
}

func (r *productRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.items[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (r *productRepository) FindByNameAndOwner(_ context.Context, name, createdBy string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.Name == name && p.CreatedBy == createdBy {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	newestFirst(out, func(p domain.Product) time.Time { return p.CreatedAt }, func(p domain.Product) string { return p.ID })
	return out, nil
}

func (r *productRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.items[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.CreatedAt, p.CreatedBy = cur.CreatedAt, cur.CreatedBy
	p.UpdatedAt = r.clock.now()
	r.items[p.ID] = *p
	return nil
}

func (r *productRepository) Delete(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	delete(r.items, id)
	return &p, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
