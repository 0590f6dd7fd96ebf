// Package mongorepo stores the storefront in MongoDB. Collection and field
// names match the documents the storefront has always written, so an
// existing database can be served without migration.
package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"produce-market/internal/domain"
)

const (
	colUsers    = "users"
	colProducts = "products"
	colOrders   = "orders"
	colContacts = "contactmessages"
)

func NewStore(db *mongo.Database) domain.Store {
	return domain.Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Orders:   NewOrderRepository(db),
		Contacts: NewContactRepository(db),
	}
}

// EnsureIndexes creates the indexes the repositories rely on. It is
// idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "name", Value: 1}}},
		},
		colOrders: {
			{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		colContacts: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}
	for col, idx := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// now is truncated to the millisecond precision BSON dates keep, so values
// returned from Create equal what a later read sees.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// oid parses a hex id. ok is false for anything that is not an ObjectID,
// which callers treat as "no such record".
func oid(id string) (primitive.ObjectID, bool) {
	o, err := primitive.ObjectIDFromHex(id)
	return o, err == nil
}

func oids(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if o, ok := oid(id); ok {
			out = append(out, o)
		}
	}
	return out
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
