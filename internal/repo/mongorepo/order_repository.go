package mongorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"produce-market/internal/domain"
)

type lineDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type orderDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Buyer     primitive.ObjectID `bson:"buyer"`
	Products  []lineDoc          `bson:"products"`
	Address   string             `bson:"address"`
	Status    string             `bson:"status"`
	Price     float64            `bson:"price"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *orderDoc) toDomain() *domain.Order {
	o := &domain.Order{
		ID: d.ID.Hex(), BuyerID: d.Buyer.Hex(), Address: d.Address, Status: domain.Status(d.Status),
		Price: d.Price, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
		Items: make([]domain.LineItem, 0, len(d.Products)),
	}
	for _, l := range d.Products {
		o.Items = append(o.Items, domain.LineItem{ProductID: l.Product.Hex(), Quantity: l.Quantity})
	}
	return o
}

type OrderRepository struct{ col *mongo.Collection }

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(colOrders)}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	buyer, ok := oid(o.BuyerID)
	if !ok {
		return domain.Validationf("invalid buyer id %q", o.BuyerID)
	}
	ts := now()
	d := orderDoc{
		ID: primitive.NewObjectID(), Buyer: buyer, Address: o.Address, Status: string(o.Status),
		Price: o.Price, CreatedAt: ts, UpdatedAt: ts,
		Products: make([]lineDoc, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		p, ok := oid(it.ProductID)
		if !ok {
			return domain.Validationf("invalid product id %q", it.ProductID)
		}
		d.Products = append(d.Products, lineDoc{Product: p, Quantity: it.Quantity})
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return err
	}
	o.ID, o.CreatedAt, o.UpdatedAt = d.ID.Hex(), ts, ts
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	o, ok := oid(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	var d orderDoc
	err := r.col.FindOne(ctx, bson.M{"_id": o}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	buyer, ok := oid(buyerID)
	if !ok {
		return []domain.Order{}, nil
	}
	return r.list(ctx, bson.M{"buyer": buyer})
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	docs, err := findAll[orderDoc](ctx, r.col, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, st domain.Status) (*domain.Order, error) {
	o, ok := oid(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	var d orderDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": o},
		bson.M{"$set": bson.M{"status": string(st), "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	o, ok := oid(id)
	if !ok {
		return domain.ErrOrderNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": o})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
