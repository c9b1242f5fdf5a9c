package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResellProduct is a seller's markup listing over another seller's catalog
// entry. It mirrors the original product's variant layout; each variant's
// price must be at least the original's price for the same slot.
type ResellProduct struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OriginalProduct primitive.ObjectID `bson:"originalProduct" json:"originalProduct"`
	Seller          primitive.ObjectID `bson:"seller" json:"seller"`
	Title           string             `bson:"title" json:"title"`
	Slug            string             `bson:"slug" json:"slug"`
	Variants        []Variant          `bson:"variants" json:"variants"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Resell listing lifecycle states. Deletion is a soft transition so the
// listing history stays addressable.
const (
	ResellStatusActive   = "active"
	ResellStatusInactive = "inactive"
	ResellStatusDeleted  = "deleted"
)

// Slugify lowercases the title and replaces every character outside [a-z0-9]
// with a hyphen.
func Slugify(title string) string {
	lowered := strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
