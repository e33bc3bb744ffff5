package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StockAuditRepository struct {
	collection *mongo.Collection
}

func NewStockAuditRepository(db *mongo.Database) *StockAuditRepository {
	return &StockAuditRepository{
		collection: db.Collection(domain.CollectionStockAudit),
	}
}

func (r *StockAuditRepository) Create(ctx context.Context, audit *domain.StockAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to create stock audit: %w", err)
	}

	return nil
}

func (r *StockAuditRepository) ListByItem(ctx context.Context, owner, itemID string, limit int) ([]domain.StockAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": owner, "inventoryItemId": itemID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock audits: %w", err)
	}
	defer cursor.Close(ctx)

	audits := make([]domain.StockAudit, 0)
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode stock audits: %w", err)
	}

	return audits, nil
}
