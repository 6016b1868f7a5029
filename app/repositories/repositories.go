// Package repositories is the record store seen by the resolvers. Each record
// kind has an interface with a MongoDB implementation and an in-memory one.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/storegraph/app/models"
)

// ErrInvalidID is returned for identifiers that are not 24-char hex ObjectIDs.
var ErrInvalidID = errors.New("invalid id")

// ProductRepository stores products.
type ProductRepository interface {
	All(ctx context.Context) ([]*models.Product, error)
	// FindByID returns (nil, nil) when no product has the id.
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// Create assigns p.ID and persists p.
	Create(ctx context.Context, p *models.Product) error
	// Update overwrites the fields set in f. It returns the document as it was
	// before the write, or after it when returnAfter is true, and (nil, nil)
	// when nothing matched.
	Update(ctx context.Context, id string, f models.ProductFields, returnAfter bool) (*models.Product, error)
	// Delete removes the product. A missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// OrderRepository stores orders.
type OrderRepository interface {
	FindByUser(ctx context.Context, userID string) ([]*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
}

// UserRepository stores users.
type UserRepository interface {
	// FindByUsername returns (nil, nil) when no user matches.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByID returns (nil, nil) when no user matches.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// All lists users; a non-empty id narrows the list to that user.
	All(ctx context.Context, id string) ([]*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// Set bundles the three repositories handed to the resolvers.
type Set struct {
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
}

// NewMemorySet returns a Set backed by process memory.
func NewMemorySet() Set {
	return Set{
		Products: NewMemoryProductRepository(),
		Orders:   NewMemoryOrderRepository(),
		Users:    NewMemoryUserRepository(),
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// NewMongoSet returns a Set backed by db.
func NewMongoSet(db *mongo.Database) Set {
	return Set{
		Products: NewMongoProductRepository(db),
		Orders:   NewMongoOrderRepository(db),
		Users:    NewMongoUserRepository(db),
	}
}

func newObjectID() primitive.ObjectID { return primitive.NewObjectID() }
