// Package mongodb is the MongoDB implementation of store.Store.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/passiton/backend/internal/store"
)

const connectTimeout = 15 * time.Second

// caseInsensitive backs the unique email and college name indexes.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type Store struct {
	client        *mongo.Client
	users         *mongo.Collection
	products      *mongo.Collection
	opportunities *mongo.Collection
	colleges      *mongo.Collection
	now           func() time.Time
}

var _ store.Store = (*Store)(nil)

// Connect dials uri, verifies the primary is reachable and ensures the
// collection indexes exist.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cli, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := cli.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := cli.Database(dbName)
	s := &Store{
		client:        cli,
		users:         db.Collection("users"),
		products:      db.Collection("products"),
		opportunities: db.Collection("opportunities"),
		colleges:      db.Collection("colleges"),
		now:           time.Now,
	}
	if err := s.ensureIndexes(dialCtx); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}},
		{s.products, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
		}},
		{s.opportunities, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}},
		}},
		{s.colleges, []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
			{Keys: bson.D{{Key: "verified", Value: -1}, {Key: "usageCount", Value: -1}}},
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateMany(ctx, idx.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) stamp() time.Time {
	// BSON dates carry millisecond precision.
	return s.now().UTC().Truncate(time.Millisecond)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

// objectID parses a hex id. Malformed ids cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

func byID(id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid}, nil
}

// byOwnedID matches id and, when ownerID is set, its owner.
func byOwnedID(id, ownerID string) (bson.M, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	if ownerID != "" {
		filter["userId"] = ownerID
	}
	return filter, nil
}

func findOptions(sort bson.D, skip, limit int) *options.FindOptions {
	opts := options.Find().SetSort(sort)
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func matchedOne(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func deletedOne(res *mongo.DeleteResult, err error) error {
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
