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

	"gesclient/internal/demande/models"
	platformmongo "gesclient/internal/platform/mongo"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type demandeDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	Type    string             `bson:"type"`
	Content string             `bson:"content"`
	Status  string             `bson:"status"`
	Account string             `bson:"account"`
	Date    time.Time          `bson:"date"`
}

func toDocument(d *models.Demande) demandeDocument {
	return demandeDocument{
		ID:      d.ID.ObjectID(),
		Type:    d.Type,
		Content: d.Content,
		Status:  d.Status,
		Account: d.Account,
		Date:    d.Date.UTC(),
	}
}

func (d demandeDocument) toModel() *models.Demande {
	return &models.Demande{
		ID:      id.ID(d.ID.Hex()),
		Type:    d.Type,
		Content: d.Content,
		Status:  d.Status,
		Account: d.Account,
		Date:    d.Date,
	}
}

// Mongo stores demandes in the "demande" collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection(platformmongo.CollectionDemande)}
}

func (s *Mongo) Create(ctx context.Context, d *models.Demande) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(d)); err != nil {
		return fmt.Errorf("insert demande: %w", err)
	}
	return nil
}

func (s *Mongo) List(ctx context.Context) ([]*models.Demande, error) {
	return s.find(ctx, bson.D{})
}

func (s *Mongo) ListByAccount(ctx context.Context, account string) ([]*models.Demande, error) {
	return s.find(ctx, bson.D{{Key: "account", Value: account}})
}

func (s *Mongo) find(ctx context.Context, filter bson.D) ([]*models.Demande, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find demandes: %w", err)
	}
	var docs []demandeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode demandes: %w", err)
	}
	out := make([]*models.Demande, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Mongo) FindByID(ctx context.Context, demandeID id.ID) (*models.Demande, error) {
	var doc demandeDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: demandeID.ObjectID()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find demande: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Mongo) Update(ctx context.Context, d *models.Demande) error {
	doc := toDocument(d)
	res, err := s.coll.UpdateByID(ctx, doc.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "type", Value: doc.Type},
		{Key: "content", Value: doc.Content},
		{Key: "status", Value: doc.Status},
		{Key: "account", Value: doc.Account},
	}}})
	if err != nil {
		return fmt.Errorf("update demande: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, demandeID id.ID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: demandeID.ObjectID()}})
	if err != nil {
		return fmt.Errorf("delete demande: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
