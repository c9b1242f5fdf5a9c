package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem references a saved product. Entries are deduplicated with
// $addToSet, so the item carries nothing beyond the reference.
type WishlistItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`

	// Attached on read paths, never persisted.
	ProductDetails *Product `bson:"-" json:"productDetails,omitempty"`
}

// Wishlist is the single per-user wishlist document.
type Wishlist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []WishlistItem     `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
