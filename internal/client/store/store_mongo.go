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

	"gesclient/internal/client/models"
	platformmongo "gesclient/internal/platform/mongo"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type clientDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Nom       string             `bson:"nom"`
	Prenom    string             `bson:"prenom"`
	CNI       string             `bson:"cni"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toDocument(c *models.Client) clientDocument {
	return clientDocument{
		ID:        c.ID.ObjectID(),
		Nom:       c.Nom,
		Prenom:    c.Prenom,
		CNI:       c.CNI.String(),
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func (d clientDocument) toModel() *models.Client {
	return &models.Client{
		ID:        id.ID(d.ID.Hex()),
		Nom:       d.Nom,
		Prenom:    d.Prenom,
		CNI:       id.CNI(d.CNI),
		CreatedAt: d.CreatedAt,
	}
}

// Mongo stores clients in the "client" collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection(platformmongo.CollectionClient)}
}

func (s *Mongo) Create(ctx context.Context, client *models.Client) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(client)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (s *Mongo) List(ctx context.Context) ([]*models.Client, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	var docs []clientDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	out := make([]*models.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Mongo) FindByID(ctx context.Context, clientID id.ID) (*models.Client, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: clientID.ObjectID()}})
}

func (s *Mongo) FindByCNI(ctx context.Context, cni id.CNI) (*models.Client, error) {
	return s.findOne(ctx, bson.D{{Key: "cni", Value: cni.String()}})
}

func (s *Mongo) findOne(ctx context.Context, filter bson.D) (*models.Client, error) {
	var doc clientDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Mongo) Update(ctx context.Context, client *models.Client) error {
	doc := toDocument(client)
	res, err := s.coll.UpdateByID(ctx, doc.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "nom", Value: doc.Nom},
		{Key: "prenom", Value: doc.Prenom},
		{Key: "cni", Value: doc.CNI},
	}}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, clientID id.ID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: clientID.ObjectID()}})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
