package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the Mongo collection holding session records.
const CollectionName = "user_sessions"

// MongoStore persists sessions in a MongoDB collection with a unique token
// index and a TTL index on the expiry field. The TTL index lets the server
// auto-purge long-expired records as defense-in-depth; the lazy check in
// FindByToken and the periodic sweep remain authoritative.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a session store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(CollectionName)}
}

// EnsureIndexes creates the token uniqueness, user lookup, and TTL indexes.
// Safe to call repeatedly; Mongo treats identical index specs as a no-op.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to ensure session indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, sess *Session) error {
	if _, err := s.col.InsertOne(ctx, sess); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(ErrDuplicateToken, err)
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByToken(ctx context.Context, token string, now time.Time) (*Session, error) {
	filter := bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": now},
	}

	var sess Session
	if err := s.col.FindOne(ctx, filter).Decode(&sess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &sess, nil
}

func (s *MongoStore) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}

// Compile-time interface assertion
var _ Store = (*MongoStore)(nil)
