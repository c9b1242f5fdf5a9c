package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NegotiatedProduct records a per-customer price a seller has agreed for one
// product variant. Quantity and price are fixed at agreement time.
type NegotiatedProduct struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Seller       primitive.ObjectID `bson:"seller" json:"seller"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Product      primitive.ObjectID `bson:"product" json:"product"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Price        float64            `bson:"price" json:"price"`
	VariantIndex int                `bson:"variantIndex" json:"variantIndex"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
