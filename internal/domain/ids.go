package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// PlaceholderUserID is the fixed identity used when no caller identity is configured.
const PlaceholderUserID = "000000000000000000000001"

// ValidID reports whether id is a 24 character hex object id.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewID returns a fresh object id in hex form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
