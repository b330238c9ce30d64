package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "roomgrid"
	DefaultCollection = "maps"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// mongoRecord is the stored form of a Record. BSON has no unsigned 64-bit
// integer, so the seed is kept as a decimal string.
type mongoRecord struct {
	ID        string           `bson:"_id"`
	CreatedAt time.Time        `bson:"created_at"`
	Request   pipeline.Request `bson:"request"`
	Seed      string           `bson:"seed,omitempty"`
	Grid      grid.Data        `bson:"grid"`
	Graph     *mapgraph.Graph  `bson:"graph,omitempty"`
}

func toMongo(rec *Record) mongoRecord {
	doc := mongoRecord{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Request:   rec.Request,
		Grid:      rec.Grid,
		Graph:     rec.Graph,
	}
	if rec.Request.Seed != nil {
		doc.Seed = strconv.FormatUint(*rec.Request.Seed, 10)
	}
	return doc
}

func (d mongoRecord) record() (Record, error) {
	rec := Record{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		Request:   d.Request,
		Grid:      d.Grid,
		Graph:     d.Graph,
	}
	if d.Seed != "" {
		seed, err := strconv.ParseUint(d.Seed, 10, 64)
		if err != nil {
			return Record{}, apperr.Wrap(apperr.ErrCodeInternal, err, "map %s has a corrupt seed", d.ID)
		}
		rec.Request.Seed = &seed
	}
	return rec, nil
}

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the primary and ensures the created_at
// index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if err := apperr.ValidateURI(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Save upserts rec.
func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	prepare(rec)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, toMongo(rec), options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "save map %s", rec.ID)
	}
	return nil
}

// Get loads the record with id.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "load map %s", id)
	}
	rec, err := doc.record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns records newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(normalizeLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "list maps")
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "decode maps")
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := d.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record with id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "delete map %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
