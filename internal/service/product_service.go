package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"produce-market/internal/core/cache"
	"produce-market/internal/domain"
	"produce-market/internal/policy"
)

const keyCatalog = "products:all"

func keyProduct(id string) string { return "products:" + id }

type ProductService struct {
	repo  domain.ProductRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewProductService serves the catalog. Reads go through c when it is
// non-nil; every write invalidates the affected keys.
func NewProductService(repo domain.ProductRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *ProductService {
	if l == nil {
		l = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProductService{repo: repo, cache: c, ttl: ttl, log: l.Named("products")}
}

// ProductInput is used for create and update. On update empty fields keep
// their current value.
type ProductInput struct {
	Name        string
	Price       *float64
	Image       string
	Description string
}

func (s *ProductService) Create(ctx context.Context, caller *domain.User, in ProductInput) (*domain.Product, error) {
	if err := policy.Authorize(caller, policy.CreateProduct, policy.None); err != nil {
		return nil, err
	}
	name, image, desc := strings.TrimSpace(in.Name), strings.TrimSpace(in.Image), strings.TrimSpace(in.Description)
	if name == "" || in.Price == nil || image == "" || desc == "" {
		return nil, domain.Validation("Something is missing for adding product")
	}
	if *in.Price < 0 {
		return nil, domain.Validation("price must not be negative")
	}

	_, err := s.repo.FindByNameAndOwner(ctx, name, caller.ID)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateProduct
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	p := &domain.Product{Name: name, Price: *in.Price, Image: image, Description: desc, CreatedBy: caller.ID}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.ID)
	s.log.Info("product created", zap.String("product", p.ID), zap.String("admin", caller.ID))
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyProduct(id), s.ttl, func(ctx context.Context) (*domain.Product, error) {
		return s.repo.FindByID(ctx, id)
	})
}

// List returns the whole catalog, newest first.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, keyCatalog, s.ttl, s.repo.List)
}

func (s *ProductService) Update(ctx context.Context, caller *domain.User, id string, in ProductInput) (*domain.Product, error) {
	if err := policy.Authorize(caller, policy.UpdateProduct, policy.None); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		p.Name = v
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, domain.Validation("price must not be negative")
		}
		p.Price = *in.Price
	}
	if v := strings.TrimSpace(in.Image); v != "" {
		p.Image = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		p.Description = v
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.log.Info("product updated", zap.String("product", id), zap.String("admin", caller.ID))
	return p, nil
}

// Delete removes a product and returns it. Orders that reference it keep
// their line items and total.
func (s *ProductService) Delete(ctx context.Context, caller *domain.User, id string) (*domain.Product, error) {
	if err := policy.Authorize(caller, policy.DeleteProduct, policy.None); err != nil {
		return nil, err
	}
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.log.Info("product deleted", zap.String("product", id), zap.String("admin", caller.ID))
	return p, nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, keyCatalog, keyProduct(id)); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.String("product", id), zap.Error(err))
	}
}
