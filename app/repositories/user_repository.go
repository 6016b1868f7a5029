package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/pkg/database"
	"github.com/shashiranjanraj/storegraph/pkg/metrics"
)

// MongoUserRepository stores users in the users collection.
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(database.Users)}
}

// FindByUsername looks up a user by exact username.
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByID looks up a user by primary key.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) All(ctx context.Context, id string) ([]*models.User, error) {
	filter := bson.M{}
	if id != "" {
		oid, err := parseID(id)
		if err != nil {
			return nil, err
		}
		filter["_id"] = oid
	}

	defer metrics.ObserveStoreOp(database.Users, "find", time.Now())

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("users: find: %w", err)
	}

	users := []*models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("users: decode: %w", err)
	}
	return users, nil
}

// Create persists a new user record.
func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) error {
	defer metrics.ObserveStoreOp(database.Users, "insert", time.Now())

	u.ID = newObjectID()
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	defer metrics.ObserveStoreOp(database.Users, "delete", time.Now())

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	defer metrics.ObserveStoreOp(database.Users, "find", time.Now())

	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: find one: %w", err)
	}
	return &u, nil
}
