package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart lifecycle states. A user has at most one active cart; checkout claims
// it by flipping active to completed in a single conditional update.
const (
	CartStatusActive    = "active"
	CartStatusCompleted = "completed"
	CartStatusAbandoned = "abandoned"
)

// CartItem is a (product, variant) selection with the unit price captured at
// the time the item was added. The snapshot, not the live product price, is
// what checkout charges.
type CartItem struct {
	ProductID    primitive.ObjectID `bson:"productId" json:"productId"`
	VariantIndex int                `bson:"variantIndex" json:"variantIndex"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	ProductPrice float64            `bson:"productPrice" json:"productPrice"`
}

// Cart is the per-user shopping cart document. Conversion to an order empties
// the items but keeps the document around.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Total sums quantity times the stored price snapshot over all items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.ProductPrice * float64(item.Quantity)
	}
	return total
}
