package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const locationCacheCollection = "location_cache"

// locationCacheDocument is one cached autocomplete answer
type locationCacheDocument struct {
	Keyword   string            `bson:"keyword"`
	Locations []entity.Location `bson:"locations"`
	CachedAt  time.Time         `bson:"cachedAt"`
}

// MongoLocationRepository implements the LocationRepository interface
type MongoLocationRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

// NewMongoLocationRepository creates a new MongoDB location cache. Entries older than ttl are misses.
func NewMongoLocationRepository(db *mongo.Database, ttl time.Duration) *MongoLocationRepository {
	return &MongoLocationRepository{
		collection: db.Collection(locationCacheCollection),
		ttl:        ttl,
		now:        time.Now,
	}
}

var _ repository.LocationRepository = (*MongoLocationRepository)(nil)

// EnsureIndexes creates the unique keyword index and the TTL index on cachedAt
func (r *MongoLocationRepository) EnsureIndexes(ctx context.Context) error {
	keywordIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "keyword", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	// Mongo removes expired documents in the background
	expiryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "cachedAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(r.ttl.Seconds())),
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{keywordIndex, expiryIndex}); err != nil {
		return fmt.Errorf("failed to create location cache indexes: %w", err)
	}
	return nil
}

// FindByKeyword returns the cached locations for keyword
func (r *MongoLocationRepository) FindByKeyword(ctx context.Context, keyword string) ([]entity.Location, bool, error) {
	// The TTL monitor runs periodically, so expired documents may still be present
	filter := bson.M{
		"keyword":  keyword,
		"cachedAt": bson.M{"$gte": r.now().Add(-r.ttl)},
	}

	var doc locationCacheDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read location cache: %w", err)
	}

	if doc.Locations == nil {
		doc.Locations = []entity.Location{}
	}
	return doc.Locations, true, nil
}

// SaveKeyword upserts the locations for keyword
func (r *MongoLocationRepository) SaveKeyword(ctx context.Context, keyword string, locations []entity.Location) error {
	doc := locationCacheDocument{
		Keyword:   keyword,
		Locations: locations,
		CachedAt:  r.now(),
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"keyword": keyword},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write location cache: %w", err)
	}
	return nil
}
