package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordRepository stores one collection of owner-partitioned records.
type RecordRepository[T any, P domain.Record[T]] struct {
	collection *mongo.Collection
	ordering   domain.Ordering
}

func NewRecordRepository[T any, P domain.Record[T]](db *mongo.Database, name string) *RecordRepository[T, P] {
	return &RecordRepository[T, P]{
		collection: db.Collection(name),
		ordering:   domain.CollectionOrdering[name],
	}
}

func (r *RecordRepository[T, P]) Create(ctx context.Context, record *T) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	meta := P(record).Metadata()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create %s record: %w", r.collection.Name(), err)
	}

	return nil
}

func (r *RecordRepository[T, P]) ListByOwner(ctx context.Context, owner string) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find()
	if r.ordering.Field != "" {
		direction := 1
		if r.ordering.Descending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: r.ordering.Field, Value: direction}, {Key: "_id", Value: 1}})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	records := make([]T, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.collection.Name(), err)
	}

	return records, nil
}

func (r *RecordRepository[T, P]) GetByID(ctx context.Context, owner, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var record T
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "userId": owner}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s record: %w", r.collection.Name(), err)
	}

	return &record, nil
}

func (r *RecordRepository[T, P]) UpdateByID(ctx context.Context, owner, id string, patch any) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	set, err := store.PatchDocument(patch)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record T
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": owner},
		bson.M{"$set": set},
		opts,
	).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update %s record: %w", r.collection.Name(), err)
	}

	return &record, nil
}

func (r *RecordRepository[T, P]) DeleteByID(ctx context.Context, owner, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": owner})
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", r.collection.Name(), err)
	}

	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	return nil
}
