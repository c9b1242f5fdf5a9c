package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

func TestValidateResellVariantsPriceFloor(t *testing.T) {
	original := &models.Product{Variants: []models.Variant{{Price: 100}, {Price: 200}}}

	if err := validateResellVariants(original, []models.Variant{{Price: 100}, {Price: 250}}); err != nil {
		t.Fatalf("expected prices at or above the original to pass, got %v", err)
	}
	if err := validateResellVariants(original, []models.Variant{{Price: 100}, {Price: 199}}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for a price below the original, got %v", err)
	}
}

func TestValidateResellVariantsShapeMustMatch(t *testing.T) {
	original := &models.Product{Variants: []models.Variant{{Price: 100}, {Price: 200}}}

	if err := validateResellVariants(original, []models.Variant{{Price: 100}}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for a variant count mismatch, got %v", err)
	}
	if err := validateResellVariants(original, nil); err != ErrValidation {
		t.Fatalf("expected ErrValidation for empty variants, got %v", err)
	}
	if err := validateResellVariants(original, []models.Variant{{Price: 100}, {Price: 200, Stock: -1}}); err != ErrValidation {
		t.Fatalf("expected ErrValidation for negative stock, got %v", err)
	}
}

func TestCreateResellListingRequiresActiveOriginal(t *testing.T) {
	missing := primitive.NewObjectID()
	abandoned := primitive.NewObjectID()
	catalog := &fakeCatalog{products: map[primitive.ObjectID]*models.Product{
		abandoned: {ID: abandoned, Status: models.ProductStatusAbandoned, Variants: []models.Variant{{Price: 10}}},
	}}
	svc := NewResellService(nil, catalog)

	variants := []models.Variant{{Price: 10}}
	if _, err := svc.CreateResellListing(context.Background(), primitive.NewObjectID(), missing, "relisted", variants); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for a missing original, got %v", err)
	}
	if _, err := svc.CreateResellListing(context.Background(), primitive.NewObjectID(), abandoned, "relisted", variants); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for an inactive original, got %v", err)
	}
}

func TestCreateResellListingRejectsUndercut(t *testing.T) {
	productID := primitive.NewObjectID()
	catalog := &fakeCatalog{products: map[primitive.ObjectID]*models.Product{
		productID: {ID: productID, Status: models.ProductStatusActive, Variants: []models.Variant{{Price: 100}}},
	}}
	svc := NewResellService(nil, catalog)

	_, err := svc.CreateResellListing(context.Background(), primitive.NewObjectID(), productID, "relisted", []models.Variant{{Price: 90}})
	if err != ErrValidation {
		t.Fatalf("expected ErrValidation when undercutting the original price, got %v", err)
	}
}

func TestNegotiatedPriceInputValidate(t *testing.T) {
	valid := NegotiatedPriceInput{
		SellerID:  primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		ProductID: primitive.NewObjectID(),
		Quantity:  1,
		Price:     50,
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid input to pass, got %v", err)
	}

	missingRef := valid
	missingRef.ProductID = primitive.NilObjectID
	if err := missingRef.validate(); err != ErrValidation {
		t.Fatalf("expected ErrValidation for a missing reference, got %v", err)
	}

	badQuantity := valid
	badQuantity.Quantity = 0
	if err := badQuantity.validate(); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity for zero quantity, got %v", err)
	}

	negativePrice := valid
	negativePrice.Price = -1
	if err := negativePrice.validate(); err != ErrValidation {
		t.Fatalf("expected ErrValidation for a negative price, got %v", err)
	}
}

func TestCreateNegotiatedPriceChecksOwnershipAndVariant(t *testing.T) {
	productID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	catalog := &fakeCatalog{products: map[primitive.ObjectID]*models.Product{
		productID: {ID: productID, Seller: owner, Status: models.ProductStatusActive, Variants: []models.Variant{{Price: 100}}},
	}}
	svc := NewNegotiationService(nil, catalog)

	input := NegotiatedPriceInput{
		SellerID:     primitive.NewObjectID(),
		UserID:       primitive.NewObjectID(),
		ProductID:    productID,
		Quantity:     1,
		Price:        80,
		VariantIndex: 0,
	}
	if _, err := svc.CreateNegotiatedPrice(context.Background(), input); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for a non-owning seller, got %v", err)
	}

	input.SellerID = owner
	input.VariantIndex = 3
	if _, err := svc.CreateNegotiatedPrice(context.Background(), input); err != ErrValidation {
		t.Fatalf("expected ErrValidation for a variant the product does not have, got %v", err)
	}
}
