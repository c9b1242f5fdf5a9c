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

// NegotiatedPriceInput carries one agreed per-customer price.
type NegotiatedPriceInput struct {
	SellerID     primitive.ObjectID
	UserID       primitive.ObjectID
	ProductID    primitive.ObjectID
	Quantity     int
	Price        float64
	VariantIndex int
}

func (in NegotiatedPriceInput) validate() error {
	if in.SellerID.IsZero() || in.UserID.IsZero() || in.ProductID.IsZero() {
		return ErrValidation
	}
	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if in.Price < 0 || in.VariantIndex < 0 {
		return ErrValidation
	}
	return nil
}

// NegotiationService stores per-customer prices sellers agree outside the
// public catalog. SellerID on every record must be the product's current
// owner, re-resolved from the catalog at write time.
type NegotiationService struct {
	db      *mongo.Database
	catalog Catalog
}

func NewNegotiationService(db *mongo.Database, catalog Catalog) *NegotiationService {
	return &NegotiationService{db: db, catalog: catalog}
}

func (s *NegotiationService) collection() *mongo.Collection {
	return s.db.Collection("negotiatedproducts")
}

// CreateNegotiatedPrice records an agreed price. The variant index must name
// an existing variant on the product.
func (s *NegotiationService) CreateNegotiatedPrice(ctx context.Context, input NegotiatedPriceInput) (*models.NegotiatedProduct, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if _, ok := product.PriceAt(input.VariantIndex); !ok {
		return nil, ErrValidation
	}
	if product.Seller != input.SellerID {
		return nil, ErrUnauthorized
	}

	now := time.Now()
	record := models.NegotiatedProduct{
		Seller:       input.SellerID,
		User:         input.UserID,
		Product:      input.ProductID,
		Quantity:     input.Quantity,
		Price:        input.Price,
		VariantIndex: input.VariantIndex,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := s.collection().InsertOne(ctx, record)
	if err != nil {
		logError("CreateNegotiatedPrice", err, map[string]any{
			"sellerId":  input.SellerID.Hex(),
			"productId": input.ProductID.Hex(),
		})
		return nil, err
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return &record, nil
}

// GetNegotiatedPrice returns one agreement with the product attached.
func (s *NegotiationService) GetNegotiatedPrice(ctx context.Context, id primitive.ObjectID) (*models.NegotiatedProduct, error) {
	var record models.NegotiatedProduct
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("GetNegotiatedPrice", err, map[string]any{"id": id.Hex()})
		return nil, err
	}
	return &record, nil
}

// GetSellerNegotiations lists a seller's agreements, newest first.
func (s *NegotiationService) GetSellerNegotiations(ctx context.Context, sellerID primitive.ObjectID) ([]models.NegotiatedProduct, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{"seller": sellerID}, opts)
	if err != nil {
		logError("GetSellerNegotiations", err, map[string]any{"sellerId": sellerID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]models.NegotiatedProduct, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteNegotiatedPrice removes an agreement the seller owns.
func (s *NegotiationService) DeleteNegotiatedPrice(ctx context.Context, sellerID, id primitive.ObjectID) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id, "seller": sellerID})
	if err != nil {
		logError("DeleteNegotiatedPrice", err, map[string]any{"id": id.Hex()})
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
