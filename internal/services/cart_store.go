package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/models"
)

// CartStore manages the single active cart per user. Items carry the unit
// price captured when they were added; checkout charges that snapshot.
type CartStore struct {
	db      *mongo.Database
	catalog Catalog
}

func NewCartStore(db *mongo.Database, catalog Catalog) *CartStore {
	return &CartStore{db: db, catalog: catalog}
}

func (s *CartStore) collection() *mongo.Collection {
	return s.db.Collection("carts")
}

// GetUserCart returns the user's active cart, or (nil, nil) when there is
// none.
func (s *CartStore) GetUserCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.collection().FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.CartStatusActive,
	}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logError("GetUserCart", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &cart, nil
}

// AddItem puts a (product, variant) selection into the active cart, taking
// the price snapshot from the live variant. Adding the same selection again
// increments its quantity instead of duplicating the entry.
func (s *CartStore) AddItem(ctx context.Context, userID, productID primitive.ObjectID, variantIndex, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	price, ok := product.PriceAt(variantIndex)
	if !ok {
		return nil, ErrValidation
	}

	now := time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// Bump quantity when the same (product, variant) entry already exists.
	var cart models.Cart
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{
			"userId": userID,
			"status": models.CartStatusActive,
			"items": bson.M{"$elemMatch": bson.M{
				"productId":    productID,
				"variantIndex": variantIndex,
			}},
		},
		bson.M{
			"$inc": bson.M{"items.$.quantity": quantity},
			"$set": bson.M{"updatedAt": now},
		},
		opts,
	).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		logError("AddItem", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}

	item := models.CartItem{
		ProductID:    productID,
		VariantIndex: variantIndex,
		Quantity:     quantity,
		ProductPrice: price,
	}
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"userId": userID, "status": models.CartStatusActive},
		bson.M{
			"$push": bson.M{"items": item},
			"$set":  bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"status":    models.CartStatusActive,
				"createdAt": now,
			},
		},
		opts.SetUpsert(true),
	).Decode(&cart)
	if err != nil {
		logError("AddItem", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &cart, nil
}

// UpdateItemQuantity sets the quantity of a cart entry; a non-positive
// quantity removes the entry.
func (s *CartStore) UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cart models.Cart
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{
			"userId":          userID,
			"status":          models.CartStatusActive,
			"items.productId": productID,
		},
		bson.M{"$set": bson.M{
			"items.$.quantity": quantity,
			"updatedAt":        time.Now(),
		}},
		opts,
	).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateItemQuantity", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &cart, nil
}

// RemoveItem pulls all entries referencing productID from the active cart.
func (s *CartStore) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cart models.Cart
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"userId": userID, "status": models.CartStatusActive},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("RemoveItem", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &cart, nil
}

// ItemInCart reports whether the active cart holds productID and at what
// quantity.
func (s *CartStore) ItemInCart(ctx context.Context, userID, productID primitive.ObjectID) (bool, int, error) {
	cart, err := s.GetUserCart(ctx, userID)
	if err != nil || cart == nil {
		return false, 0, err
	}
	for _, item := range cart.Items {
		if item.ProductID == productID {
			return true, item.Quantity, nil
		}
	}
	return false, 0, nil
}

// ClaimActiveCart commits the user's active, non-empty cart in one
// conditional update (active→completed) and returns the cart as it was
// before the claim. A concurrent or repeated checkout finds no active cart
// and gets ErrEmptyCart instead of converting the same cart twice.
func (s *CartStore) ClaimActiveCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var cart models.Cart
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{
			"userId":  userID,
			"status":  models.CartStatusActive,
			"items.0": bson.M{"$exists": true},
		},
		bson.M{"$set": bson.M{
			"status":    models.CartStatusCompleted,
			"updatedAt": time.Now(),
		}},
		opts,
	).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrEmptyCart
	}
	if err != nil {
		logError("ClaimActiveCart", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &cart, nil
}

// LatestCompletedCart returns the user's most recently committed cart, or
// (nil, nil) when the user has never checked out. The checkout retry path
// uses it to find the cart a duplicate request may have already converted.
func (s *CartStore) LatestCompletedCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	var cart models.Cart
	err := s.collection().FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.CartStatusCompleted,
	}, opts).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logError("LatestCompletedCart", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &cart, nil
}

// ReopenCart reverts a claimed cart back to active. Used when order creation
// fails after the claim so the user can retry checkout.
func (s *CartStore) ReopenCart(ctx context.Context, cartID primitive.ObjectID) error {
	_, err := s.collection().UpdateByID(ctx, cartID, bson.M{"$set": bson.M{
		"status":    models.CartStatusActive,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		logError("ReopenCart", err, map[string]any{"cartId": cartID.Hex()})
	}
	return err
}

// ClearItems empties the cart document without deleting it.
func (s *CartStore) ClearItems(ctx context.Context, cartID primitive.ObjectID) error {
	_, err := s.collection().UpdateByID(ctx, cartID, bson.M{"$set": bson.M{
		"items":     []models.CartItem{},
		"updatedAt": time.Now(),
	}})
	if err != nil {
		logError("ClearItems", err, map[string]any{"cartId": cartID.Hex()})
	}
	return err
}
