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

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FullName    string             `bson:"fullname"`
	Email       string             `bson:"email"`
	PhoneNumber string             `bson:"phonenumber"`
	Password    string             `bson:"password"`
	Role        string             `bson:"role"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID: d.ID.Hex(), FullName: d.FullName, Email: d.Email, PhoneNumber: d.PhoneNumber,
		PasswordHash: d.Password, Role: domain.Role(d.Role), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

type UserRepository struct{ col *mongo.Collection }

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(colUsers)}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ts := now()
	d := userDoc{
		ID: primitive.NewObjectID(), FullName: u.FullName, Email: u.Email, PhoneNumber: u.PhoneNumber,
		Password: u.PasswordHash, Role: string(u.Role), CreatedAt: ts, UpdatedAt: ts,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = d.ID.Hex(), ts, ts
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	o, ok := oid(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": o})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var d userDoc
	err := r.col.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	keys := oids(ids)
	if len(keys) == 0 {
		return out, nil
	}
	docs, err := findAll[userDoc](ctx, r.col, bson.M{"_id": bson.M{"$in": keys}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		u := docs[i].toDomain()
		out[u.ID] = u
	}
	return out, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	docs, err := findAll[userDoc](ctx, r.col, bson.M{"role": string(role)}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts *options.FindOptions) ([]T, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = col.Find(ctx, filter, opts)
	} else {
		cur, err = col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

var _ domain.UserRepository = (*UserRepository)(nil)
