package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is one purchasable configuration of a product with its own price
// and stock level.
type Variant struct {
	Price float64 `bson:"price" json:"price"`
	Stock int     `bson:"stock" json:"stock"`
}

// Product is a seller-owned catalog entry. Seller holds the current owner;
// status-changing order operations re-resolve ownership from this field
// rather than trusting ids cached elsewhere.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Seller      primitive.ObjectID `bson:"seller" json:"seller"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    StringList         `bson:"category" json:"category"`
	Status      string             `bson:"status" json:"status"`
	IsVerified  bool               `bson:"isVerified" json:"isVerified"`
	Variants    []Variant          `bson:"variants" json:"variants"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Product lifecycle states.
const (
	ProductStatusActive    = "active"
	ProductStatusAbandoned = "abandoned"
)

// PriceAt returns the price of the variant at the given index. ok is false
// when the index does not name an existing variant; callers treat that as a
// validation failure rather than guessing a different variant's price.
func (p *Product) PriceAt(variantIndex int) (price float64, ok bool) {
	if variantIndex < 0 || variantIndex >= len(p.Variants) {
		return 0, false
	}
	return p.Variants[variantIndex].Price, true
}
