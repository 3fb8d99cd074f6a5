package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yarachoice/clinic-api/pkg/metrics"
)

// Collection is a typed wrapper over a mongo collection. Every method is one
// independent, non-transactional round trip.
type Collection[T any] struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewCollection[T any](db *mongo.Database, name string, m *metrics.Metrics) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), metrics: m}
}

func (c *Collection[T]) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.StoreOperations.WithLabelValues(c.coll.Name(), op, status).Inc()
	c.metrics.StoreLatency.WithLabelValues(c.coll.Name(), op).Observe(time.Since(start).Seconds())
}

// FindOne returns the first match, or (nil, nil) when nothing matches.
func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	start := time.Now()
	var doc T
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		c.observe("find_one", start, nil)
		return nil, nil
	}
	c.observe("find_one", start, err)
	if err != nil {
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &doc, nil
}

func (c *Collection[T]) FindAll(ctx context.Context, filter bson.M, sort bson.D) ([]T, error) {
	start := time.Now()
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		c.observe("find_all", start, err)
		return nil, fmt.Errorf("find: %w", err)
	}

	var docs []T
	err = cursor.All(ctx, &docs)
	c.observe("find_all", start, err)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return docs, nil
}

// FindPage applies sort before skip/limit.
func (c *Collection[T]) FindPage(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]T, error) {
	start := time.Now()
	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		c.observe("find_page", start, err)
		return nil, fmt.Errorf("find: %w", err)
	}

	var docs []T
	err = cursor.All(ctx, &docs)
	c.observe("find_page", start, err)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return docs, nil
}

func (c *Collection[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	start := time.Now()
	n, err := c.coll.CountDocuments(ctx, filter)
	c.observe("count", start, err)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (c *Collection[T]) InsertOne(ctx context.Context, doc *T) error {
	start := time.Now()
	_, err := c.coll.InsertOne(ctx, doc)
	c.observe("insert_one", start, err)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// ReplaceByID swaps the full document. Returns false when no document
// matched the id.
func (c *Collection[T]) ReplaceByID(ctx context.Context, id primitive.ObjectID, doc *T) (bool, error) {
	start := time.Now()
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	c.observe("replace_one", start, err)
	if err != nil {
		return false, fmt.Errorf("replace: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// SetFields applies a partial $set update. Returns false when no document
// matched.
func (c *Collection[T]) SetFields(ctx context.Context, filter bson.M, fields bson.M) (bool, error) {
	start := time.Now()
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	c.observe("update_one", start, err)
	if err != nil {
		return false, fmt.Errorf("update: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	start := time.Now()
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	c.observe("delete_one", start, err)
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (c *Collection[T]) Exists(ctx context.Context, filter bson.M) (bool, error) {
	start := time.Now()
	err := c.coll.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		c.observe("exists", start, nil)
		return false, nil
	}
	c.observe("exists", start, err)
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}
