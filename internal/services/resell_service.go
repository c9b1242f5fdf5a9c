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

// ResellService manages markup listings sellers publish over other sellers'
// catalog entries. A listing mirrors the original product's variant layout
// and may only raise prices, never undercut them.
type ResellService struct {
	db      *mongo.Database
	catalog Catalog
}

func NewResellService(db *mongo.Database, catalog Catalog) *ResellService {
	return &ResellService{db: db, catalog: catalog}
}

func (s *ResellService) collection() *mongo.Collection {
	return s.db.Collection("resellproducts")
}

// validateResellVariants checks the markup variants against the original
// product: one variant per original slot, each priced at or above the
// original's price for that slot.
func validateResellVariants(original *models.Product, variants []models.Variant) error {
	if len(variants) == 0 || len(variants) != len(original.Variants) {
		return ErrValidation
	}
	for i, v := range variants {
		if v.Price < original.Variants[i].Price || v.Stock < 0 {
			return ErrValidation
		}
	}
	return nil
}

// activeOriginal loads the original product and requires it to be active.
func (s *ResellService) activeOriginal(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Status != models.ProductStatusActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// CreateResellListing publishes a markup listing for sellerID over the given
// active product. A seller gets at most one listing per original product and
// may not reuse a title across their own listings; both rules are backed by
// unique indexes, the pre-checks here exist to return ErrDuplicate instead
// of a raw index error.
func (s *ResellService) CreateResellListing(ctx context.Context, sellerID, originalProductID primitive.ObjectID, title string, variants []models.Variant) (*models.ResellProduct, error) {
	if sellerID.IsZero() || originalProductID.IsZero() || title == "" {
		return nil, ErrValidation
	}

	original, err := s.activeOriginal(ctx, originalProductID)
	if err != nil {
		return nil, err
	}
	if err := validateResellVariants(original, variants); err != nil {
		return nil, err
	}

	count, err := s.collection().CountDocuments(ctx, bson.M{
		"seller": sellerID,
		"$or": []bson.M{
			{"originalProduct": originalProductID},
			{"title": title},
		},
	})
	if err != nil {
		logError("CreateResellListing", err, map[string]any{"sellerId": sellerID.Hex()})
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	now := time.Now()
	listing := models.ResellProduct{
		OriginalProduct: originalProductID,
		Seller:          sellerID,
		Title:           title,
		Slug:            models.Slugify(title),
		Variants:        variants,
		Status:          models.ResellStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := s.collection().InsertOne(ctx, listing)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		logError("CreateResellListing", err, map[string]any{
			"sellerId":  sellerID.Hex(),
			"productId": originalProductID.Hex(),
		})
		return nil, err
	}
	listing.ID = res.InsertedID.(primitive.ObjectID)
	return &listing, nil
}

// UpdateResellListing changes the title and/or variants of a listing the
// seller owns. Nil fields are left untouched. The original product must
// still be active and updated variants obey the same price floor as on
// creation.
func (s *ResellService) UpdateResellListing(ctx context.Context, sellerID, resellID primitive.ObjectID, title string, variants []models.Variant) (*models.ResellProduct, error) {
	var listing models.ResellProduct
	err := s.collection().FindOne(ctx, bson.M{
		"_id":    resellID,
		"seller": sellerID,
		"status": bson.M{"$ne": models.ResellStatusDeleted},
	}).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateResellListing", err, map[string]any{"resellId": resellID.Hex()})
		return nil, err
	}

	original, err := s.activeOriginal(ctx, listing.OriginalProduct)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if title != "" && title != listing.Title {
		count, err := s.collection().CountDocuments(ctx, bson.M{
			"seller": sellerID,
			"title":  title,
			"_id":    bson.M{"$ne": resellID},
		})
		if err != nil {
			logError("UpdateResellListing", err, map[string]any{"resellId": resellID.Hex()})
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicate
		}
		set["title"] = title
		set["slug"] = models.Slugify(title)
	}
	if variants != nil {
		if err := validateResellVariants(original, variants); err != nil {
			return nil, err
		}
		set["variants"] = variants
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": resellID, "seller": sellerID},
		bson.M{"$set": set},
		opts,
	).Decode(&listing)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		logError("UpdateResellListing", err, map[string]any{"resellId": resellID.Hex()})
		return nil, err
	}
	return &listing, nil
}

// DeleteResellListing soft-deletes a listing the seller owns.
func (s *ResellService) DeleteResellListing(ctx context.Context, sellerID, resellID primitive.ObjectID) (*models.ResellProduct, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var listing models.ResellProduct
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{
			"_id":    resellID,
			"seller": sellerID,
			"status": bson.M{"$ne": models.ResellStatusDeleted},
		},
		bson.M{"$set": bson.M{
			"status":    models.ResellStatusDeleted,
			"updatedAt": time.Now(),
		}},
		opts,
	).Decode(&listing)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("DeleteResellListing", err, map[string]any{"resellId": resellID.Hex()})
		return nil, err
	}
	return &listing, nil
}

// GetSellerResellListings lists a seller's non-deleted listings, newest
// first.
func (s *ResellService) GetSellerResellListings(ctx context.Context, sellerID primitive.ObjectID) ([]models.ResellProduct, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{
		"seller": sellerID,
		"status": bson.M{"$ne": models.ResellStatusDeleted},
	}, opts)
	if err != nil {
		logError("GetSellerResellListings", err, map[string]any{"sellerId": sellerID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	listings := make([]models.ResellProduct, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}
