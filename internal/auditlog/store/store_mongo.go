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

	"gesclient/internal/auditlog/models"
	platformmongo "gesclient/internal/platform/mongo"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/sentinel"
)

type logDocument struct {
	ID         primitive.ObjectID  `bson:"_id"`
	Action     string              `bson:"action"`
	Message    string              `bson:"message"`
	Success    bool                `bson:"success"`
	IP         string              `bson:"ip"`
	UserID     *string             `bson:"userId"`
	URL        string              `bson:"url"`
	Method     string              `bson:"method"`
	StatusCode int                 `bson:"statusCode"`
	DemandeID  *primitive.ObjectID `bson:"demandeId,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt"`
}

func toDocument(l *models.Log) logDocument {
	doc := logDocument{
		ID:         l.ID.ObjectID(),
		Action:     l.Action,
		Message:    l.Message,
		Success:    l.Success,
		IP:         l.IP,
		UserID:     l.UserID,
		URL:        l.URL,
		Method:     l.Method,
		StatusCode: l.StatusCode,
		CreatedAt:  l.CreatedAt.UTC(),
	}
	if l.DemandeID != nil {
		oid := l.DemandeID.ObjectID()
		doc.DemandeID = &oid
	}
	return doc
}

func (d logDocument) toModel() *models.Log {
	l := &models.Log{
		ID:         id.ID(d.ID.Hex()),
		Action:     d.Action,
		Message:    d.Message,
		Success:    d.Success,
		IP:         d.IP,
		UserID:     d.UserID,
		URL:        d.URL,
		Method:     d.Method,
		StatusCode: d.StatusCode,
		CreatedAt:  d.CreatedAt,
	}
	if d.DemandeID != nil {
		demandeID := id.ID(d.DemandeID.Hex())
		l.DemandeID = &demandeID
	}
	return l
}

// Mongo stores logs in the "log" collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection(platformmongo.CollectionLog)}
}

func (s *Mongo) Create(ctx context.Context, l *models.Log) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(l)); err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

func (s *Mongo) List(ctx context.Context) ([]*models.Log, error) {
	return s.find(ctx, bson.D{})
}

func (s *Mongo) ListByDemandeIDs(ctx context.Context, demandeIDs []id.ID) ([]*models.Log, error) {
	if len(demandeIDs) == 0 {
		return []*models.Log{}, nil
	}
	oids := make(bson.A, 0, len(demandeIDs))
	for _, d := range demandeIDs {
		oids = append(oids, d.ObjectID())
	}
	return s.find(ctx, bson.D{{Key: "demandeId", Value: bson.D{{Key: "$in", Value: oids}}}})
}

func (s *Mongo) find(ctx context.Context, filter bson.D) ([]*models.Log, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find logs: %w", err)
	}
	var docs []logDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}
	out := make([]*models.Log, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Mongo) FindByID(ctx context.Context, logID id.ID) (*models.Log, error) {
	var doc logDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: logID.ObjectID()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find log: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Mongo) Update(ctx context.Context, l *models.Log) error {
	doc := toDocument(l)
	set := bson.D{
		{Key: "action", Value: doc.Action},
		{Key: "message", Value: doc.Message},
		{Key: "success", Value: doc.Success},
		{Key: "ip", Value: doc.IP},
		{Key: "url", Value: doc.URL},
		{Key: "method", Value: doc.Method},
		{Key: "statusCode", Value: doc.StatusCode},
	}
	var update bson.D
	if doc.DemandeID != nil {
		set = append(set, bson.E{Key: "demandeId", Value: *doc.DemandeID})
		update = bson.D{{Key: "$set", Value: set}}
	} else {
		update = bson.D{
			{Key: "$set", Value: set},
			{Key: "$unset", Value: bson.D{{Key: "demandeId", Value: ""}}},
		}
	}

	res, err := s.coll.UpdateByID(ctx, doc.ID, update)
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, logID id.ID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: logID.ObjectID()}})
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
