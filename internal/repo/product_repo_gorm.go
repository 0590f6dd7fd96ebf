package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	m := ProductModel{
		ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image,
		Description: p.Description, CreatedBy: p.CreatedBy,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	p.CreatedAt, p.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var m ProductModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *ProductRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ms []ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		out[ms[i].ID] = ms[i].toDomain()
	}
	return out, nil
}

func (r *ProductRepo) FindByNameAndOwner(ctx context.Context, name, createdBy string) (*domain.Product, error) {
	var m ProductModel
	err := r.db.WithContext(ctx).Where("name = ? AND created_by = ?", name, createdBy).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var ms []ProductModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":        p.Name,
		"price":       p.Price,
		"image":       p.Image,
		"description": p.Description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	cur, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *cur
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) (*domain.Product, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductModel{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

var _ domain.ProductRepository = (*ProductRepo)(nil)
