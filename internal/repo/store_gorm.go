package repo

import (
	"context"

	"gorm.io/gorm"

	"produce-market/internal/domain"
)

func NewGormStore(db *gorm.DB) domain.Store {
	return domain.Store{
		Users:    NewUserRepo(db),
		Products: NewProductRepo(db),
		Orders:   NewOrderRepo(db),
		Contacts: NewContactRepo(db),
	}
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}

// GormTx runs a function against a Store bound to one SQL transaction.
type GormTx struct{ DB *gorm.DB }

func (t GormTx) InTx(ctx context.Context, fn func(ctx context.Context, s domain.Store) error) error {
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormStore(tx))
	})
}

var _ domain.TxRunner = GormTx{}
