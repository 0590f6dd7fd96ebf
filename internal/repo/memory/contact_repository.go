package memory

import (
	"context"
	"sync"
	"time"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type contactRepository struct {
	mu    sync.RWMutex
	clock clock
	items map[string]domain.ContactMessage
}

func NewContactRepository() domain.ContactRepository {
	return &contactRepository{items: map[string]domain.ContactMessage{}}
}

func (r *contactRepository) Create(_ context.Context, m *domain.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = utils.NewID()
	}
	m.CreatedAt = r.clock.now()
	r.items[m.ID] = *m
	return nil
}

func (r *contactRepository) List(_ context.Context) ([]domain.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ContactMessage, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	newestFirst(out, func(m domain.ContactMessage) time.Time { return m.CreatedAt }, func(m domain.ContactMessage) string { return m.ID })
	return out, nil
}

func (r *contactRepository) UpdateStatus(_ context.Context, id string, st domain.ContactStatus) (*domain.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	m.Status = st
	r.items[id] = m
	return &m, nil
}

var _ domain.ContactRepository = (*contactRepository)(nil)
