package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account that can log in.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username string             `bson:"username"      json:"username"`
	Email    string             `bson:"email"         json:"email"`
	Password string             `bson:"password"      json:"-"` // bcrypt hash, never serialised
	IsAdmin  bool               `bson:"isAdmin"       json:"isAdmin"`
}
