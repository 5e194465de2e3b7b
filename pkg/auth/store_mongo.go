package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersCollectionName is the Mongo collection holding user accounts.
const UsersCollectionName = "users"

// userDocument is the persisted form of a User. IDs are stored as their
// canonical string form to keep documents readable and queries index-friendly.
type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Bio          string    `bson:"bio,omitempty"`
	PasswordHash []byte    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d *userDocument) toUser() (*User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed user id %q: %w", d.ID, err)
	}
	return &User{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Bio:       d.Bio,
		CreatedAt: d.CreatedAt,
	}, nil
}

// MongoUserStore persists user accounts in MongoDB.
type MongoUserStore struct {
	col *mongo.Collection
}

// NewMongoUserStore creates a user store over the given database.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(UsersCollectionName)}
}

// EnsureIndexes creates the unique email index. Safe to call repeatedly.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure user indexes: %w", err)
	}
	return nil
}

func (s *MongoUserStore) CreateUser(ctx context.Context, user *User, passwordHash []byte) error {
	doc := userDocument{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Bio:          user.Bio,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *MongoUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var doc userDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toUser()
}

func (s *MongoUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var doc userDocument
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return doc.toUser()
}

func (s *MongoUserStore) GetPasswordHash(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var doc userDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.PasswordHash, nil
}

// Compile-time interface assertion
var _ UserStore = (*MongoUserStore)(nil)
