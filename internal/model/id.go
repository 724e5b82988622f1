package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-character hex object id. Ids are generated by the
// server for every storage driver so they look the same regardless of backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a well-formed object id.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
