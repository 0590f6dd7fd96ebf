package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"produce-market/internal/domain"
	"produce-market/pkg/utils"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("position") })
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = utils.NewID()
	}
	m := OrderModel{
		ID: o.ID, BuyerID: o.BuyerID, Address: o.Address,
		Status: string(o.Status), Price: o.Price,
		Items: make([]OrderItemModel, 0, len(o.Items)),
	}
	for i, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{Position: i, ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	o.CreatedAt, o.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var m OrderModel
	err := withItems(r.db.WithContext(ctx)).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return r.list(r.db.WithContext(ctx).Where("buyer_id = ?", buyerID))
}

func (r *OrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *OrderRepo) list(q *gorm.DB) ([]domain.Order, error) {
	var ms []OrderModel
	if err := withItems(q).Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].toDomain())
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, st domain.Status) (*domain.Order, error) {
	res := r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", id).Update("status", string(st))
	if res.Error != nil {
		return nil, res.Error
	}
	// mysql reports 0 affected rows when the value is unchanged, so a miss
	// here is resolved by the read below
	return r.FindByID(ctx, id)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderItemModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&OrderModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOrderNotFound
		}
		return nil
	})
}

var _ domain.OrderRepository = (*OrderRepo)(nil)
