package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gesclient/internal/numero/models"
	platformmongo "gesclient/internal/platform/mongo"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type numeroDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	PhoneNumber string             `bson:"phoneNumber"`
	CNI         string             `bson:"cni"`
	Status      string             `bson:"status"`
	ClientID    primitive.ObjectID `bson:"clientId"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func toDocument(n *models.NumeroClient) numeroDocument {
	return numeroDocument{
		ID:          n.ID.ObjectID(),
		PhoneNumber: n.PhoneNumber.String(),
		CNI:         n.CNI,
		Status:      n.Status.String(),
		ClientID:    n.ClientID.ObjectID(),
		CreatedAt:   n.CreatedAt.UTC(),
	}
}

func (d numeroDocument) toModel() *models.NumeroClient {
	return &models.NumeroClient{
		ID:          id.ID(d.ID.Hex()),
		PhoneNumber: id.PhoneNumber(d.PhoneNumber),
		CNI:         d.CNI,
		Status:      id.NumeroStatus(d.Status),
		ClientID:    id.ID(d.ClientID.Hex()),
		CreatedAt:   d.CreatedAt,
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Mongo stores numeros in the "numeroClient" collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection(platformmongo.CollectionNumeroClient)}
}

func (s *Mongo) Create(ctx context.Context, n *models.NumeroClient) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(n)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert numero: %w", err)
	}
	return nil
}

func (s *Mongo) List(ctx context.Context) ([]*models.NumeroClient, error) {
	return s.find(ctx, bson.D{})
}

func (s *Mongo) ListByClientID(ctx context.Context, clientID id.ID) ([]*models.NumeroClient, error) {
	return s.find(ctx, bson.D{{Key: "clientId", Value: clientID.ObjectID()}})
}

func (s *Mongo) find(ctx context.Context, filter bson.D) ([]*models.NumeroClient, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find numeros: %w", err)
	}
	var docs []numeroDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode numeros: %w", err)
	}
	out := make([]*models.NumeroClient, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Mongo) FindByID(ctx context.Context, numeroID id.ID) (*models.NumeroClient, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: numeroID.ObjectID()}})
}

func (s *Mongo) FindByPhoneNumber(ctx context.Context, phone id.PhoneNumber) (*models.NumeroClient, error) {
	return s.findOne(ctx, bson.D{{Key: "phoneNumber", Value: phone.String()}})
}

func (s *Mongo) FindByCNI(ctx context.Context, cni string) (*models.NumeroClient, error) {
	return s.findOne(ctx, bson.D{{Key: "cni", Value: cni}})
}

func (s *Mongo) findOne(ctx context.Context, filter bson.D) (*models.NumeroClient, error) {
	var doc numeroDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find numero: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Mongo) Update(ctx context.Context, n *models.NumeroClient) error {
	doc := toDocument(n)
	res, err := s.coll.UpdateByID(ctx, doc.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "phoneNumber", Value: doc.PhoneNumber},
		{Key: "cni", Value: doc.CNI},
		{Key: "status", Value: doc.Status},
		{Key: "clientId", Value: doc.ClientID},
	}}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update numero: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, numeroID id.ID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: numeroID.ObjectID()}})
	if err != nil {
		return fmt.Errorf("delete numero: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
