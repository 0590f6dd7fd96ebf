package memory

import (
	"context"
	"sync"
	"time"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type userRepository struct {
	mu      sync.RWMutex
	clock   clock
	items   map[string]domain.User
	byEmail map[string]string
}

func NewUserRepository() domain.UserRepository {
	return &userRepository{items: map[string]domain.User{}, byEmail: map[string]string{}}
}

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return domain.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	now := r.clock.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.items[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.items[id]
	return &u, nil
}

func (r *userRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.items[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *userRepository) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.items))
	for _, u := range r.items {
		if u.Role == role {
			out = append(out, u)
		}
	}
	newestFirst(out, func(u domain.User) time.Time { return u.CreatedAt }, func(u domain.User) string { return u.ID })
	return out, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
