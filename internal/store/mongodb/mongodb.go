// Package mongodb implements store.Store over a MongoDB collection.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
)

// Open connects to MongoDB and verifies connectivity with a ping.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// NewWithCollection constructs a store backed by coll. Close disconnects the
// collection's client.
func NewWithCollection(coll *mongo.Collection) *Store {
	return &Store{coll: coll, now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }}
}

// Store is the MongoDB-backed store.Store.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ store.Store = (*Store)(nil)

func (s *Store) Recipes() store.Recipes { return &recipes{coll: s.coll, now: s.now} }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.coll.Database().Client().Disconnect(ctx)
}

type recipes struct {
	coll *mongo.Collection
	now  func() time.Time
}

func objectID(id string) (primitive.ObjectID, error) {
	if err := store.ValidateID(id); err != nil {
		return primitive.NilObjectID, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, model.ErrInvalidID
	}
	return oid, nil
}

func (r *recipes) Insert(ctx context.Context, rec *model.Recipe) (*model.Recipe, error) {
	doc := toDocument(rec)
	doc.ID = primitive.NewObjectID()
	now := r.now()
	doc.CreationTime = now
	doc.UpdateTime = now
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "insert recipe")
	}
	return doc.toModel(), nil
}

func (r *recipes) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc recipeDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, errors.Wrap(err, "find recipe")
	}
	return doc.toModel(), nil
}

func (r *recipes) FindByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []*model.Recipe{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, errors.Wrap(err, "find recipes")
	}
	var docs []recipeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode recipes")
	}
	byID := make(map[primitive.ObjectID]recipeDocument, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	out := make([]*model.Recipe, 0, len(docs))
	for _, oid := range oids {
		if d, ok := byID[oid]; ok {
			out = append(out, d.toModel())
			delete(byID, oid)
		}
	}
	return out, nil
}

func (r *recipes) UpdateByID(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc recipeDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, patchUpdate(patch, r.now()), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, errors.Wrap(err, "update recipe")
	}
	return doc.toModel(), nil
}

func (r *recipes) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrap(err, "delete recipe")
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FacetPage runs the single-round-trip $facet aggregation.
func (r *recipes) FacetPage(ctx context.Context, f query.Filter, skip, limit int) (*store.FacetResult, error) {
	cur, err := r.coll.Aggregate(ctx, query.FacetPipeline(f, skip, limit))
	if err != nil {
		return nil, errors.Wrap(err, "aggregate recipes")
	}
	defer func() { _ = cur.Close(ctx) }()

	res := &store.FacetResult{Items: []model.RecipeSummary{}}
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, errors.Wrap(err, "read facet result")
		}
		return res, nil
	}
	var doc facetDocument
	if err := cur.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode facet result")
	}
	for _, it := range doc.Items {
		res.Items = append(res.Items, it.toModel())
	}
	if len(doc.Total) > 0 {
		res.Total = doc.Total[0].Count
	}
	return res, nil
}

func (r *recipes) CountMatching(ctx context.Context, f query.Filter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, f.BSON())
	if err != nil {
		return 0, errors.Wrap(err, "count recipes")
	}
	return n, nil
}
