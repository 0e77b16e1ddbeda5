package seed

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	id "gesclient/pkg/domain"
)

const (
	collectionRole = "role"
	collectionUser = "user"
)

type roleDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Libelle     string             `bson:"libelle"`
	Description string             `bson:"description"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Nom       string             `bson:"nom"`
	Prenom    string             `bson:"prenom"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	RoleID    primitive.ObjectID `bson:"roleId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// AccountMongo keeps roles and users in their own collections.
type AccountMongo struct {
	roles *mongo.Collection
	users *mongo.Collection
}

func NewAccountMongo(db *mongo.Database) *AccountMongo {
	return &AccountMongo{
		roles: db.Collection(collectionRole),
		users: db.Collection(collectionUser),
	}
}

// EnsureIndexes adds the unique keys the upserts match on.
func (s *AccountMongo) EnsureIndexes(ctx context.Context) error {
	if _, err := s.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "libelle", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("role_libelle_key"),
	}); err != nil {
		return fmt.Errorf("create role indexes: %w", err)
	}
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_email_key"),
	}); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (s *AccountMongo) UpsertRole(ctx context.Context, role *Role) (*Role, bool, error) {
	doc := roleDocument{ID: role.ID.ObjectID(), Libelle: role.Libelle, Description: role.Description}
	var stored roleDocument
	created, err := upsert(ctx, s.roles, bson.D{{Key: "libelle", Value: role.Libelle}}, doc, &stored)
	if err != nil {
		return nil, false, fmt.Errorf("upsert role: %w", err)
	}
	return &Role{ID: id.ID(stored.ID.Hex()), Libelle: stored.Libelle, Description: stored.Description}, created, nil
}

func (s *AccountMongo) UpsertUser(ctx context.Context, user *User) (*User, bool, error) {
	doc := userDocument{
		ID:        user.ID.ObjectID(),
		Nom:       user.Nom,
		Prenom:    user.Prenom,
		Email:     user.Email,
		Password:  user.PasswordHash,
		RoleID:    user.RoleID.ObjectID(),
		CreatedAt: user.CreatedAt.UTC(),
	}
	var stored userDocument
	created, err := upsert(ctx, s.users, bson.D{{Key: "email", Value: user.Email}}, doc, &stored)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}
	return &User{
		ID:           id.ID(stored.ID.Hex()),
		Nom:          stored.Nom,
		Prenom:       stored.Prenom,
		Email:        stored.Email,
		PasswordHash: stored.Password,
		RoleID:       id.ID(stored.RoleID.Hex()),
		CreatedAt:    stored.CreatedAt,
	}, created, nil
}

// upsert inserts doc when nothing matches filter and leaves an existing
// document untouched. out receives the stored document; the boolean reports
// whether it was inserted.
func upsert(ctx context.Context, coll *mongo.Collection, filter bson.D, doc, out any) (bool, error) {
	res, err := coll.UpdateOne(ctx, filter, bson.D{{Key: "$setOnInsert", Value: doc}}, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	if err := coll.FindOne(ctx, filter).Decode(out); err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
