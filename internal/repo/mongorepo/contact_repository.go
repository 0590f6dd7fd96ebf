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

type contactDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Subject    string             `bson:"subject"`
	Message    string             `bson:"message"`
	SenderRole string             `bson:"senderRole,omitempty"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d *contactDoc) toDomain() *domain.ContactMessage {
	return &domain.ContactMessage{
		ID: d.ID.Hex(), Name: d.Name, Email: d.Email, Subject: d.Subject, Message: d.Message,
		SenderRole: domain.Role(d.SenderRole), Status: domain.ContactStatus(d.Status), CreatedAt: d.CreatedAt,
	}
}

type ContactRepository struct{ col *mongo.Collection }

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(colContacts)}
}

func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	d := contactDoc{
		ID: primitive.NewObjectID(), Name: m.Name, Email: m.Email, Subject: m.Subject,
		Message: m.Message, SenderRole: string(m.SenderRole), Status: string(m.Status), CreatedAt: now(),
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return err
	}
	m.ID, m.CreatedAt = d.ID.Hex(), d.CreatedAt
	return nil
}

func (r *ContactRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	docs, err := findAll[contactDoc](ctx, r.col, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContactMessage, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, st domain.ContactStatus) (*domain.ContactMessage, error) {
	o, ok := oid(id)
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	var d contactDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": o},
		bson.M{"$set": bson.M{"status": string(st)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

var _ domain.ContactRepository = (*ContactRepository)(nil)
