package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshToken stores the sha256 of an issued refresh token. Rotation revokes
// the old record and links it to its replacement.
type RefreshToken struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `bson:"userId"`
	TokenHash       string              `bson:"tokenHash"`
	ExpiresAt       time.Time           `bson:"expiresAt"`
	Revoked         bool                `bson:"revoked"`
	ReplacedByToken *primitive.ObjectID `bson:"replacedByToken,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt"`
}
