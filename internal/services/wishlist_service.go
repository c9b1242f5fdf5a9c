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

// WishlistService manages the single per-user wishlist document.
type WishlistService struct {
	db      *mongo.Database
	catalog Catalog
}

func NewWishlistService(db *mongo.Database, catalog Catalog) *WishlistService {
	return &WishlistService{db: db, catalog: catalog}
}

func (s *WishlistService) collection() *mongo.Collection {
	return s.db.Collection("wishlists")
}

// GetWishlist returns the user's wishlist with product details attached.
// A user without a wishlist gets an empty one, not an error; a dangling
// product reference leaves that item's details nil.
func (s *WishlistService) GetWishlist(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := s.collection().FindOne(ctx, bson.M{"userId": userID}).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		return &models.Wishlist{UserID: userID, Items: []models.WishlistItem{}}, nil
	}
	if err != nil {
		logError("GetWishlist", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}

	for i := range wishlist.Items {
		product, err := s.catalog.GetProductByID(ctx, wishlist.Items[i].ProductID)
		if err != nil {
			logError("GetWishlist", err, map[string]any{
				"userId":    userID.Hex(),
				"productId": wishlist.Items[i].ProductID.Hex(),
			})
			continue
		}
		wishlist.Items[i].ProductDetails = product
	}
	return &wishlist, nil
}

// AddToWishlist saves a product reference, creating the wishlist on first
// use. Adding the same product twice is a no-op.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	var wishlist models.Wishlist
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$addToSet": bson.M{"items": models.WishlistItem{ProductID: productID}},
			"$set":      bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{
				"userId":    userID,
				"createdAt": now,
			},
		},
		opts,
	).Decode(&wishlist)
	if err != nil {
		logError("AddToWishlist", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &wishlist, nil
}

// RemoveFromWishlist pulls a product reference from the wishlist.
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var wishlist models.Wishlist
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		opts,
	).Decode(&wishlist)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("RemoveFromWishlist", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	return &wishlist, nil
}

// InWishlist reports whether the user has saved the product.
func (s *WishlistService) InWishlist(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	count, err := s.collection().CountDocuments(ctx, bson.M{
		"userId":          userID,
		"items.productId": productID,
	})
	if err != nil {
		logError("InWishlist", err, map[string]any{"userId": userID.Hex()})
		return false, err
	}
	return count > 0, nil
}

// ClearWishlist empties the wishlist without deleting the document.
func (s *WishlistService) ClearWishlist(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.collection().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"items":     []models.WishlistItem{},
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		logError("ClearWishlist", err, map[string]any{"userId": userID.Hex()})
	}
	return err
}
