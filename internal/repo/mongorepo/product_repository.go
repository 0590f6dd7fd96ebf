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

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Image       string             `bson:"image"`
	Description string             `bson:"description"`
	CreatedBy   primitive.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID: d.ID.Hex(), Name: d.Name, Price: d.Price, Image: d.Image, Description: d.Description,
		CreatedBy: d.CreatedBy.Hex(), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type ProductRepository struct{ col *mongo.Collection }

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(colProducts)}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	owner, ok := oid(p.CreatedBy)
	if !ok {
		return domain.Validationf("invalid owner id %q", p.CreatedBy)
	}
	ts := now()
	d := productDoc{
		ID: primitive.NewObjectID(), Name: p.Name, Price: p.Price, Image: p.Image,
		Description: p.Description, CreatedBy: owner, CreatedAt: ts, UpdatedAt: ts,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return err
	}
	p.ID, p.CreatedAt, p.UpdatedAt = d.ID.Hex(), ts, ts
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	o, ok := oid(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return r.findOne(ctx, bson.M{"_id": o})
}

func (r *ProductRepository) FindByNameAndOwner(ctx context.Context, name, createdBy string) (*domain.Product, error) {
	owner, ok := oid(createdBy)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return r.findOne(ctx, bson.M{"name": name, "createdBy": owner})
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	var d productDoc
	err := r.col.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	out := make(map[string]*domain.Product, len(ids))
	keys := oids(ids)
	if len(keys) == 0 {
		return out, nil
	}
	docs, err := findAll[productDoc](ctx, r.col, bson.M{"_id": bson.M{"$in": keys}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		p := docs[i].toDomain()
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	docs, err := findAll[productDoc](ctx, r.col, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	o, ok := oid(p.ID)
	if !ok {
		return domain.ErrProductNotFound
	}
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"price":       p.Price,
		"image":       p.Image,
		"description": p.Description,
		"updatedAt":   now(),
	}}
	var d productDoc
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": o}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return err
	}
	*p = *d.toDomain()
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	o, ok := oid(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	var d productDoc
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": o}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

var _ domain.ProductRepository = (*ProductRepository)(nil)
