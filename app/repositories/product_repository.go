package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/pkg/database"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
)

// MongoProductRepository stores products in the products collection.
type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection(database.Products)}
}

// All returns every product in natural order.
func (r *MongoProductRepository) All(ctx context.Context) ([]*models.Product, error) {
	defer metrics.ObserveStoreOp(database.Products, "find", time.Now())

	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("products: find: %w", err)
	}

	products := []*models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveStoreOp(database.Products, "find", time.Now())

	var p models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("products: find one: %w", err)
	}
	return &p, nil
}

func (r *MongoProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp(database.Products, "insert", time.Now())

	p.ID = newObjectID()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("products: insert: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id string, f models.ProductFields, returnAfter bool) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := productSet(f)
	if len(set) == 0 {
		// $set with no fields is rejected by the server; there is nothing to write.
		return r.FindByID(ctx, id)
	}

	defer metrics.ObserveStoreOp(database.Products, "update", time.Now())

	after := options.Before
	if returnAfter {
		after = options.After
	}

	var p models.Product
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("products: update: %w", err)
	}
	return &p, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	defer metrics.ObserveStoreOp(database.Products, "delete", time.Now())

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	return nil
}

// productSet lists the fields present in f under their stored names.
func productSet(f models.ProductFields) bson.M {
	set := bson.M{}
	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.Brand != nil {
		set["brand"] = *f.Brand
	}
	if f.Category != nil {
		set["category"] = *f.Category
	}
	if f.Description != nil {
		set["description"] = *f.Description
	}
	if f.DiscountPercentage != nil {
		set["discountPercentage"] = *f.DiscountPercentage
	}
	if f.Images != nil {
		set["images"] = *f.Images
	}
	if f.Price != nil {
		set["price"] = *f.Price
	}
	if f.Rating != nil {
		set["rating"] = *f.Rating
	}
	if f.Stock != nil {
		set["stock"] = *f.Stock
	}
	if f.Thumbnail != nil {
		set["thumbnail"] = *f.Thumbnail
	}
	return set
}
