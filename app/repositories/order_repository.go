package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/pkg/database"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
)

// MongoOrderRepository reads orders from the orders collection.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(database.Orders)}
}

// FindByUser returns the orders whose userId equals userID.
func (r *MongoOrderRepository) FindByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	defer metrics.ObserveStoreOp(database.Orders, "find", time.Now())

	cur, err := r.col.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("orders: find: %w", err)
	}

	orders := []*models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

func (r *MongoOrderRepository) Create(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveStoreOp(database.Orders, "insert", time.Now())

	o.ID = newObjectID()
	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}
