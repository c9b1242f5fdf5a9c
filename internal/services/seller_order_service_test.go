package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSellerOrderInputValidateRequiredRefs(t *testing.T) {
	valid := SellerOrderInput{
		OrderID:    primitive.NewObjectID(),
		ProductID:  primitive.NewObjectID(),
		SellerID:   primitive.NewObjectID(),
		CustomerID: primitive.NewObjectID(),
		SaleAmount: 100,
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid input to pass, got %v", err)
	}

	missingOrder := valid
	missingOrder.OrderID = primitive.NilObjectID
	if err := missingOrder.validate(); err != ErrValidation {
		t.Fatalf("expected ErrValidation without orderId, got %v", err)
	}

	missingProduct := valid
	missingProduct.ProductID = primitive.NilObjectID
	if err := missingProduct.validate(); err != ErrValidation {
		t.Fatalf("expected ErrValidation without productId, got %v", err)
	}

	missingSeller := valid
	missingSeller.SellerID = primitive.NilObjectID
	if err := missingSeller.validate(); err != ErrValidation {
		t.Fatalf("expected ErrValidation without sellerId, got %v", err)
	}

	negative := valid
	negative.SaleAmount = -1
	if err := negative.validate(); err != ErrValidation {
		t.Fatalf("expected ErrValidation for a negative amount, got %v", err)
	}
}

func TestSellerOrderQueryCombinesFiltersConjunctively(t *testing.T) {
	sellerID := primitive.NewObjectID()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	query := sellerOrderQuery(SellerOrderFilters{
		SellerID:  sellerID,
		Status:    "Shipped",
		StartDate: &start,
		EndDate:   &end,
	})

	if query["sellerId"] != sellerID {
		t.Fatalf("expected sellerId filter, got %v", query)
	}
	if query["orderStatus"] != "Shipped" {
		t.Fatalf("expected orderStatus filter, got %v", query)
	}
	createdAt, ok := query["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("expected createdAt range, got %v", query)
	}
	if createdAt["$gte"] != start || createdAt["$lte"] != end {
		t.Fatalf("expected inclusive date range, got %v", createdAt)
	}
}

func TestSellerOrderQueryOmitsUnsetFilters(t *testing.T) {
	sellerID := primitive.NewObjectID()
	query := sellerOrderQuery(SellerOrderFilters{SellerID: sellerID})

	if len(query) != 1 {
		t.Fatalf("expected only the sellerId filter, got %v", query)
	}

	// A half-open range is ignored: both dates must be present.
	start := time.Now()
	query = sellerOrderQuery(SellerOrderFilters{SellerID: sellerID, StartDate: &start})
	if _, ok := query["createdAt"]; ok {
		t.Fatalf("expected no createdAt filter with only a start date, got %v", query)
	}
}

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, limit         int64
		wantPage, wantLimit int64
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 25, 2, 25},
		{1, 1, 1, 1},
	}
	for _, tc := range cases {
		page, limit := normalizePagination(tc.page, tc.limit)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Fatalf("normalizePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
