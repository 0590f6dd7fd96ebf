package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"produce-market/internal/core/config"
	"produce-market/internal/core/database"
	"produce-market/internal/domain"
	"produce-market/internal/repo"
	"produce-market/internal/repo/memory"
	"produce-market/internal/repo/mongorepo"
)

// Backend is an opened storage driver.
type Backend struct {
	Driver string
	Store  domain.Store
	// Tx is nil unless the driver supports transactions and they are enabled.
	Tx domain.TxRunner

	migrate func(ctx context.Context) error
	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Migrate creates tables (SQL) or indexes (mongo). It is idempotent.
func (b *Backend) Migrate(ctx context.Context) error {
	if b.migrate == nil {
		return nil
	}
	return b.migrate(ctx)
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend connects to the driver named by cfg.DB.Driver.
func OpenBackend(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Backend, error) {
	switch cfg.DB.Driver {
	case "memory":
		l.Warn("using in-memory store, data is lost on restart")
		return &Backend{Driver: "memory", Store: memory.NewStore()}, nil
	case "mongo":
		db, err := database.NewMongo(ctx, database.MongoOpts{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  time.Duration(cfg.Mongo.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return mongoBackend(db), nil
	case "postgres", "mysql":
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		}, l)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
		}
		b := gormBackend(cfg.DB.Driver, db)
		if cfg.DB.TxPlaceOrder {
			b.Tx = repo.GormTx{DB: db}
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, cfg.DB.Driver)
	}
}

func mongoBackend(db *mongo.Database) *Backend {
	return &Backend{
		Driver:  "mongo",
		Store:   mongorepo.NewStore(db),
		migrate: func(ctx context.Context) error { return mongorepo.EnsureIndexes(ctx, db) },
		ping:    func(ctx context.Context) error { return db.Client().Ping(ctx, readpref.Primary()) },
		close:   func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}
}

func gormBackend(driver string, db *gorm.DB) *Backend {
	return &Backend{
		Driver:  driver,
		Store:   repo.NewGormStore(db),
		migrate: func(ctx context.Context) error { return repo.Migrate(ctx, db) },
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
