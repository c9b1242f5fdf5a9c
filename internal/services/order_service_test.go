package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
)

// fakeCatalog resolves products and sellers from in-memory maps so order
// logic can be exercised without a database.
type fakeCatalog struct {
	products map[primitive.ObjectID]*models.Product
	sellers  map[primitive.ObjectID]primitive.ObjectID
}

func (f *fakeCatalog) GetProductByID(_ context.Context, productID primitive.ObjectID) (*models.Product, error) {
	return f.products[productID], nil
}

func (f *fakeCatalog) GetSellerIDFromProductID(_ context.Context, productID primitive.ObjectID) (primitive.ObjectID, error) {
	sellerID, ok := f.sellers[productID]
	if !ok {
		return primitive.NilObjectID, ErrNotFound
	}
	return sellerID, nil
}

func TestBuildLineItemsUsesPriceSnapshot(t *testing.T) {
	now := time.Now()
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()

	items, total := buildLineItems([]models.CartItem{
		{ProductID: productA, Quantity: 2, ProductPrice: 100},
		{ProductID: productB, Quantity: 1, ProductPrice: 50},
	}, now)

	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	if total != 250 {
		t.Fatalf("expected total 250 from snapshots, got %v", total)
	}
	for _, item := range items {
		if item.Status != models.ItemStatusProcessing {
			t.Fatalf("expected new items to start Processing, got %q", item.Status)
		}
		if !item.PlacedAt.Equal(now) {
			t.Fatalf("expected placedAt %v, got %v", now, item.PlacedAt)
		}
	}
	if items[0].Price != 100 || items[1].Price != 50 {
		t.Fatalf("expected snapshot prices 100 and 50, got %v and %v", items[0].Price, items[1].Price)
	}
}

func TestBuildLineItemsEmptyCart(t *testing.T) {
	items, total := buildLineItems(nil, time.Now())
	if len(items) != 0 || total != 0 {
		t.Fatalf("expected no items and zero total, got %d items, total %v", len(items), total)
	}
}

func TestBuildSellerOrderInputsOnePerItem(t *testing.T) {
	productA := primitive.NewObjectID()
	productB := primitive.NewObjectID()
	sellerA := primitive.NewObjectID()
	sellerB := primitive.NewObjectID()
	customer := primitive.NewObjectID()

	catalog := &fakeCatalog{sellers: map[primitive.ObjectID]primitive.ObjectID{
		productA: sellerA,
		productB: sellerB,
	}}

	now := time.Now()
	order := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: customer,
		Items: []models.OrderLineItem{
			{ProductID: productA, Quantity: 2, Price: 100, Status: models.ItemStatusProcessing, PlacedAt: now},
			{ProductID: productB, Quantity: 1, Price: 50, Status: models.ItemStatusProcessing, PlacedAt: now},
		},
	}

	inputs := buildSellerOrderInputs(context.Background(), order, catalog)
	if len(inputs) != 2 {
		t.Fatalf("expected one input per line item, got %d", len(inputs))
	}

	if inputs[0].SellerID != sellerA || inputs[1].SellerID != sellerB {
		t.Fatal("expected sellers resolved from the catalog per product")
	}
	if inputs[0].SaleAmount != 200 || inputs[1].SaleAmount != 50 {
		t.Fatalf("expected sale amounts 200 and 50, got %v and %v", inputs[0].SaleAmount, inputs[1].SaleAmount)
	}
	for _, input := range inputs {
		if input.OrderID != order.ID || input.CustomerID != customer {
			t.Fatal("expected order and customer references carried onto every input")
		}
	}
}

func TestBuildSellerOrderInputsSkipsUnresolvableSeller(t *testing.T) {
	productA := primitive.NewObjectID()
	orphan := primitive.NewObjectID()
	sellerA := primitive.NewObjectID()

	catalog := &fakeCatalog{sellers: map[primitive.ObjectID]primitive.ObjectID{
		productA: sellerA,
	}}

	order := &models.Order{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Items: []models.OrderLineItem{
			{ProductID: productA, Quantity: 1, Price: 10},
			{ProductID: orphan, Quantity: 1, Price: 20},
		},
	}

	inputs := buildSellerOrderInputs(context.Background(), order, catalog)
	if len(inputs) != 1 {
		t.Fatalf("expected the orphan item to be skipped, got %d inputs", len(inputs))
	}
	if inputs[0].ProductID != productA {
		t.Fatal("expected the resolvable item to survive")
	}
}

func TestAuthorizeItemUpdateWrongSeller(t *testing.T) {
	productID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()

	catalog := &fakeCatalog{sellers: map[primitive.ObjectID]primitive.ObjectID{
		productID: owner,
	}}
	order := &models.Order{Items: []models.OrderLineItem{{ProductID: productID}}}

	if _, err := authorizeItemUpdate(context.Background(), catalog, order, productID, intruder); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for a non-owning seller, got %v", err)
	}
	idx, err := authorizeItemUpdate(context.Background(), catalog, order, productID, owner)
	if err != nil {
		t.Fatalf("expected the owning seller to be authorized, got %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected item index 0, got %d", idx)
	}
}

func TestAuthorizeItemUpdateMissingItem(t *testing.T) {
	catalog := &fakeCatalog{sellers: map[primitive.ObjectID]primitive.ObjectID{}}
	order := &models.Order{Items: []models.OrderLineItem{{ProductID: primitive.NewObjectID()}}}

	if _, err := authorizeItemUpdate(context.Background(), catalog, order, primitive.NewObjectID(), primitive.NewObjectID()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for a product not on the order, got %v", err)
	}
}

func TestAuthorizeItemUpdateDeletedProduct(t *testing.T) {
	productID := primitive.NewObjectID()
	catalog := &fakeCatalog{sellers: map[primitive.ObjectID]primitive.ObjectID{}}
	order := &models.Order{Items: []models.OrderLineItem{{ProductID: productID}}}

	if _, err := authorizeItemUpdate(context.Background(), catalog, order, productID, primitive.NewObjectID()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound when the product no longer exists, got %v", err)
	}
}

func TestItemStatusUpdateTouchesOnlyPositionalPaths(t *testing.T) {
	now := time.Now()
	update := itemStatusUpdate(models.ItemStatusShipped, now)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set document, got %v", update)
	}
	if set["items.$.product_order_status"] != models.ItemStatusShipped {
		t.Fatalf("expected positional status set, got %v", set)
	}
	if set["items.$.shippedAt"] != now {
		t.Fatalf("expected positional shippedAt stamp, got %v", set)
	}
	if set["updatedAt"] != now {
		t.Fatalf("expected order-level updatedAt, got %v", set)
	}
	for key := range set {
		if key != "items.$.product_order_status" && key != "items.$.shippedAt" && key != "updatedAt" {
			t.Fatalf("unexpected field %q in update, sibling items must not be touched", key)
		}
	}
}

func TestItemStatusUpdateNoTimestampForProcessing(t *testing.T) {
	update := itemStatusUpdate(models.ItemStatusProcessing, time.Now())
	set := update["$set"].(bson.M)
	if len(set) != 2 {
		t.Fatalf("expected only status and updatedAt for Processing, got %v", set)
	}
}

func TestUpdateProductOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewOrderService(nil, nil, &fakeCatalog{}, nil, nil, nil)
	_, err := svc.UpdateProductOrderStatus(context.Background(),
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), "shipped")
	if err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus for lowercase status, got %v", err)
	}
}

func TestCreateOrderForSingleProductRejectsBadQuantity(t *testing.T) {
	svc := NewOrderService(nil, nil, &fakeCatalog{}, nil, nil, nil)
	for _, quantity := range []int{0, -1} {
		_, err := svc.CreateOrderForSingleProduct(context.Background(),
			primitive.NewObjectID(), primitive.NewObjectID(), 0, quantity,
			models.ShippingAddress{}, "card")
		if err != ErrInvalidQuantity {
			t.Fatalf("expected ErrInvalidQuantity for quantity %d, got %v", quantity, err)
		}
	}
}

func TestCreateOrderForSingleProductMissingProduct(t *testing.T) {
	svc := NewOrderService(nil, nil, &fakeCatalog{products: map[primitive.ObjectID]*models.Product{}}, nil, nil, nil)
	_, err := svc.CreateOrderForSingleProduct(context.Background(),
		primitive.NewObjectID(), primitive.NewObjectID(), 0, 1,
		models.ShippingAddress{}, "card")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for an unknown product, got %v", err)
	}
}

func TestCreateOrderForSingleProductRejectsBadVariantIndex(t *testing.T) {
	productID := primitive.NewObjectID()
	catalog := &fakeCatalog{products: map[primitive.ObjectID]*models.Product{
		productID: {ID: productID, Variants: []models.Variant{{Price: 100}}},
	}}
	svc := NewOrderService(nil, nil, catalog, nil, nil, nil)

	_, err := svc.CreateOrderForSingleProduct(context.Background(),
		primitive.NewObjectID(), productID, 5, 1,
		models.ShippingAddress{}, "card")
	if err != ErrValidation {
		t.Fatalf("expected ErrValidation for a variant index the product does not have, got %v", err)
	}
}

func TestDesiredAggregateStatusCompletionFlip(t *testing.T) {
	now := time.Now()
	items := []models.OrderLineItem{
		{ProductID: primitive.NewObjectID(), Status: models.ItemStatusProcessing},
		{ProductID: primitive.NewObjectID(), Status: models.ItemStatusProcessing},
	}

	// Delivering one of two items leaves the order Pending.
	models.ApplyItemStatus(&items[0], models.ItemStatusDelivered, now)
	if status, changed := desiredAggregateStatus(models.OrderStatusPending, items); status != models.OrderStatusPending || changed {
		t.Fatalf("expected Pending unchanged with one undelivered item, got %q changed=%v", status, changed)
	}

	// Delivering the last item flips the order to Completed.
	models.ApplyItemStatus(&items[1], models.ItemStatusDelivered, now)
	status, changed := desiredAggregateStatus(models.OrderStatusPending, items)
	if status != models.OrderStatusCompleted || !changed {
		t.Fatalf("expected flip to Completed when every item is delivered, got %q changed=%v", status, changed)
	}

	// A return after completion drops the order back to Pending.
	models.ApplyItemStatus(&items[1], models.ItemStatusReturned, now)
	status, changed = desiredAggregateStatus(models.OrderStatusCompleted, items)
	if status != models.OrderStatusPending || !changed {
		t.Fatalf("expected Completed to revert to Pending after a return, got %q changed=%v", status, changed)
	}
}

func TestDesiredAggregateStatusKeepsCancelledOrders(t *testing.T) {
	items := []models.OrderLineItem{{Status: models.ItemStatusDelivered}}
	if status, changed := desiredAggregateStatus(models.OrderStatusCancelled, items); status != models.OrderStatusCancelled || changed {
		t.Fatalf("expected a cancelled order to stay cancelled, got %q changed=%v", status, changed)
	}
}

func TestRecomputeAggregateSkipsWriteWhenUnchanged(t *testing.T) {
	svc := NewOrderService(nil, nil, &fakeCatalog{}, nil, nil, nil)
	order := &models.Order{
		ID:     primitive.NewObjectID(),
		Status: models.OrderStatusPending,
		Items: []models.OrderLineItem{
			{Status: models.ItemStatusDelivered},
			{Status: models.ItemStatusProcessing},
		},
	}

	// No database is wired; reaching the write path would panic.
	if got := svc.recomputeAggregate(context.Background(), order, time.Now()); got != models.OrderStatusPending {
		t.Fatalf("expected Pending to be kept without a write, got %q", got)
	}
}

func TestRetryLookupCartID(t *testing.T) {
	committed := &models.Cart{ID: primitive.NewObjectID(), Status: models.CartStatusCompleted}

	// An active cart means the claim failed because the cart is empty, not
	// because another request already committed it.
	if _, ok := retryLookupCartID(&models.Cart{Status: models.CartStatusActive}, committed); ok {
		t.Fatal("expected no retry lookup while an active cart exists")
	}
	if _, ok := retryLookupCartID(nil, nil); ok {
		t.Fatal("expected no retry lookup for a user who never checked out")
	}
	cartID, ok := retryLookupCartID(nil, committed)
	if !ok || cartID != committed.ID {
		t.Fatalf("expected the committed cart id, got %v ok=%v", cartID, ok)
	}
}
