package mongodb

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	serrors "go.pilab.hu/tokenstore/errors"
	"go.pilab.hu/tokenstore/persistence"
)

// Repository implements persistence.Repository on one collection. The
// entity id is stored as _id.
type Repository[T persistence.Entity] struct {
	coll  *mongo.Collection
	newFn func() T
}

// NewRepository returns a repository on coll. newFn allocates the value
// documents are decoded into.
func NewRepository[T persistence.Entity](coll *mongo.Collection, newFn func() T) *Repository[T] {
	return &Repository[T]{coll: coll, newFn: newFn}
}

// toBSON translates a filter into a query document.
func toBSON(filter persistence.Filter) bson.D {
	doc := bson.D{}
	for _, c := range filter.Conditions {
		doc = append(doc, bson.E{Key: c.Field, Value: c.Value})
	}
	return doc
}

// Get implements persistence.Repository.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	raw, err := r.coll.FindOne(ctx, bson.D{{Key: persistence.FieldID, Value: id}}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, serrors.NotFound("mongodb.Get", "no document %q in %s", id, r.coll.Name())
	}
	if err != nil {
		log.Error().Err(err).Str("collection", r.coll.Name()).Str("id", id).Msg("Failed to find document")
		return zero, serrors.Unavailable("mongodb.Get", err)
	}

	e := r.newFn()
	if err := bson.Unmarshal(raw, e); err != nil {
		return zero, serrors.Corrupt("mongodb.Get", err)
	}
	return e, nil
}

// Query implements persistence.Repository. Documents that cannot be decoded
// are skipped.
func (r *Repository[T]) Query(ctx context.Context, filter persistence.Filter) ([]T, error) {
	cursor, err := r.coll.Find(ctx, toBSON(filter))
	if err != nil {
		log.Error().Err(err).Str("collection", r.coll.Name()).Msg("Failed to query documents")
		return nil, serrors.Unavailable("mongodb.Query", err)
	}
	defer cursor.Close(ctx)

	var out []T
	for cursor.Next(ctx) {
		e := r.newFn()
		if err := cursor.Decode(e); err != nil {
			log.Warn().Err(err).Str("collection", r.coll.Name()).Msg("Skipping undecodable document")
			continue
		}
		out = append(out, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, serrors.Unavailable("mongodb.Query", err)
	}

	return out, nil
}

// Save implements persistence.Repository.
func (r *Repository[T]) Save(ctx context.Context, entity T) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.D{{Key: persistence.FieldID, Value: entity.EntityID()}},
		entity,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Error().Err(err).Str("collection", r.coll.Name()).Str("id", entity.EntityID()).Msg("Failed to save document")
		return serrors.Unavailable("mongodb.Save", err)
	}
	return nil
}

// DeleteWhere implements persistence.Repository.
func (r *Repository[T]) DeleteWhere(ctx context.Context, filter persistence.Filter) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, toBSON(filter))
	if err != nil {
		log.Error().Err(err).Str("collection", r.coll.Name()).Msg("Failed to delete documents")
		return 0, serrors.Unavailable("mongodb.DeleteWhere", err)
	}
	return res.DeletedCount, nil
}
