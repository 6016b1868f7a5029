package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order belongs to a user by a plain string reference. Orders are written
// by other systems; any field besides userId is kept in Extra untouched.
type Order struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID string             `bson:"userId"        json:"userId"`
	Extra  bson.M             `bson:",inline"       json:"-"`
}
