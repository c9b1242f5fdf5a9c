package services

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/models"
)

// Catalog is the product lookup surface the order services depend on. Every
// status-changing operation re-resolves seller ownership through it instead
// of trusting seller ids cached on order records.
type Catalog interface {
	// GetProductByID returns (nil, nil) when the product does not exist.
	GetProductByID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
	// GetSellerIDFromProductID returns ErrNotFound when the product does
	// not exist.
	GetSellerIDFromProductID(ctx context.Context, productID primitive.ObjectID) (primitive.ObjectID, error)
}

// ProductCatalog is the Mongo-backed Catalog implementation plus the
// seller-facing product operations.
type ProductCatalog struct {
	db *mongo.Database
}

func NewProductCatalog(db *mongo.Database) *ProductCatalog {
	return &ProductCatalog{db: db}
}

func (p *ProductCatalog) collection() *mongo.Collection {
	return p.db.Collection("products")
}

func (p *ProductCatalog) GetProductByID(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := p.collection().FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logError("GetProductByID", err, map[string]any{"productId": productID.Hex()})
		return nil, err
	}
	return &product, nil
}

func (p *ProductCatalog) GetSellerIDFromProductID(ctx context.Context, productID primitive.ObjectID) (primitive.ObjectID, error) {
	var result struct {
		Seller primitive.ObjectID `bson:"seller"`
	}
	opts := options.FindOne().SetProjection(bson.M{"seller": 1})
	err := p.collection().FindOne(ctx, bson.M{"_id": productID}, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, ErrNotFound
	}
	if err != nil {
		logError("GetSellerIDFromProductID", err, map[string]any{"productId": productID.Hex()})
		return primitive.NilObjectID, err
	}
	return result.Seller, nil
}

// CreateProduct inserts a new catalog entry owned by sellerID.
func (p *ProductCatalog) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	if product.Seller.IsZero() || product.Title == "" || len(product.Variants) == 0 {
		return nil, ErrValidation
	}
	now := time.Now()
	product.Status = models.ProductStatusActive
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := p.collection().InsertOne(ctx, product)
	if err != nil {
		logError("CreateProduct", err, map[string]any{"seller": product.Seller.Hex()})
		return nil, err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return &product, nil
}

// ActiveSellerProducts lists a seller's active catalog entries.
func (p *ProductCatalog) ActiveSellerProducts(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	cursor, err := p.collection().Find(ctx, bson.M{
		"seller": sellerID,
		"status": models.ProductStatusActive,
	})
	if err != nil {
		logError("ActiveSellerProducts", err, map[string]any{"sellerId": sellerID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// VariantStock is the per-variant stock view returned by SellerStockLevels.
type VariantStock struct {
	VariantIndex int `json:"variantIndex"`
	Stock        int `json:"stock"`
}

// ProductStock summarises stock per variant for one product.
type ProductStock struct {
	ProductID primitive.ObjectID `json:"productId"`
	Title     string             `json:"title"`
	Variants  []VariantStock     `json:"variants"`
}

// SellerStockLevels returns stock per variant across a seller's active
// products.
func (p *ProductCatalog) SellerStockLevels(ctx context.Context, sellerID primitive.ObjectID) ([]ProductStock, error) {
	products, err := p.ActiveSellerProducts(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	levels := make([]ProductStock, 0, len(products))
	for _, product := range products {
		variants := make([]VariantStock, 0, len(product.Variants))
		for i, v := range product.Variants {
			variants = append(variants, VariantStock{VariantIndex: i, Stock: v.Stock})
		}
		levels = append(levels, ProductStock{
			ProductID: product.ID,
			Title:     product.Title,
			Variants:  variants,
		})
	}
	return levels, nil
}

// UpdateVariantStock sets the stock of one variant on a product the seller
// owns. Returns ErrNotFound when the product is missing or owned by someone
// else, ErrValidation for an out-of-range variant index.
func (p *ProductCatalog) UpdateVariantStock(ctx context.Context, sellerID, productID primitive.ObjectID, variantIndex, stock int) (*models.Product, error) {
	var product models.Product
	err := p.collection().FindOne(ctx, bson.M{"_id": productID, "seller": sellerID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateVariantStock", err, map[string]any{"productId": productID.Hex()})
		return nil, err
	}

	if variantIndex < 0 || variantIndex >= len(product.Variants) {
		return nil, ErrValidation
	}

	now := time.Now()
	field := "variants." + strconv.Itoa(variantIndex) + ".stock"
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = p.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": productID, "seller": sellerID},
		bson.M{"$set": bson.M{field: stock, "updatedAt": now}},
		opts,
	).Decode(&product)
	if err != nil {
		logError("UpdateVariantStock", err, map[string]any{"productId": productID.Hex()})
		return nil, err
	}
	return &product, nil
}

// OwnershipVerifier is the capability check used before any status-changing
// order operation: the caller must be the current seller of the product,
// resolved live from the catalog.
type OwnershipVerifier struct {
	catalog Catalog
}

func NewOwnershipVerifier(catalog Catalog) *OwnershipVerifier {
	return &OwnershipVerifier{catalog: catalog}
}

// Verify returns nil when callerID owns productID, ErrUnauthorized when the
// product belongs to someone else, and ErrNotFound when the product is gone.
func (v *OwnershipVerifier) Verify(ctx context.Context, productID, callerID primitive.ObjectID) error {
	sellerID, err := v.catalog.GetSellerIDFromProductID(ctx, productID)
	if err != nil {
		return err
	}
	if sellerID != callerID {
		return ErrUnauthorized
	}
	return nil
}
