package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding security events.
const CollectionName = "security_events"

// mongoStorage writes the trail to a MongoDB collection. Suits deployments
// that keep high-volume append-only data out of the relational store.
type mongoStorage struct {
	coll *mongo.Collection
}

// NewMongoStorage returns a security event store backed by MongoDB.
func NewMongoStorage(db *mongo.Database) Storage {
	if db == nil {
		panic("audit: mongo database cannot be nil")
	}
	return &mongoStorage{coll: db.Collection(CollectionName)}
}

func (s *mongoStorage) Store(ctx context.Context, event Event) error {
	if _, err := s.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("audit: store event: %w", err)
	}
	return nil
}

func (s *mongoStorage) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("audit: decode events: %w", err)
	}
	return events, nil
}
