package models

import "testing"

func TestCartTotalUsesSnapshots(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Quantity: 2, ProductPrice: 100},
		{Quantity: 1, ProductPrice: 50},
	}}
	if got := cart.Total(); got != 250 {
		t.Fatalf("expected total 250, got %v", got)
	}
}

func TestCartTotalEmpty(t *testing.T) {
	var cart Cart
	if got := cart.Total(); got != 0 {
		t.Fatalf("expected zero total for an empty cart, got %v", got)
	}
}

func TestProductPriceAt(t *testing.T) {
	product := Product{Variants: []Variant{{Price: 10}, {Price: 20}}}

	if price, ok := product.PriceAt(1); !ok || price != 20 {
		t.Fatalf("expected variant price 20, got %v ok=%v", price, ok)
	}
	// An index that names no variant is a caller error, not variant 0.
	if _, ok := product.PriceAt(5); ok {
		t.Fatal("expected ok=false for an out-of-range variant index")
	}
	if _, ok := product.PriceAt(-1); ok {
		t.Fatal("expected ok=false for a negative variant index")
	}

	empty := Product{}
	if _, ok := empty.PriceAt(0); ok {
		t.Fatal("expected ok=false for a product with no variants")
	}
}
