package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/events"
	"marketplace/internal/models"
	"marketplace/internal/redisx"
)

// SellerOrderInput carries everything needed to project one order line item
// into a seller-scoped sub-order.
type SellerOrderInput struct {
	OrderID    primitive.ObjectID
	ProductID  primitive.ObjectID
	SellerID   primitive.ObjectID
	CustomerID primitive.ObjectID
	SaleAmount float64
	Status     string
	PlacedAt   time.Time
}

// SellerOrderCreator is the fan-out target used when an order is placed: one
// seller order per line item.
type SellerOrderCreator interface {
	CreateSellerOrder(ctx context.Context, input SellerOrderInput) (*models.SellerOrder, error)
}

// OrderService converts carts and single-product selections into orders and
// owns the per-line-item status lifecycle on the parent order.
type OrderService struct {
	db      *mongo.Database
	carts   *CartStore
	catalog Catalog
	sellers SellerOrderCreator
	rdb     *redis.Client
	events  *events.Publisher
}

func NewOrderService(db *mongo.Database, carts *CartStore, catalog Catalog, sellers SellerOrderCreator, rdb *redis.Client, publisher *events.Publisher) *OrderService {
	return &OrderService{
		db:      db,
		carts:   carts,
		catalog: catalog,
		sellers: sellers,
		rdb:     rdb,
		events:  publisher,
	}
}

func (s *OrderService) collection() *mongo.Collection {
	return s.db.Collection("orders")
}

// buildLineItems copies cart items into order line items using the price
// snapshot stored on each cart item, and returns the order total.
func buildLineItems(items []models.CartItem, now time.Time) ([]models.OrderLineItem, float64) {
	lineItems := make([]models.OrderLineItem, 0, len(items))
	var total float64
	for _, item := range items {
		lineItems = append(lineItems, models.OrderLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.ProductPrice,
			Status:    models.ItemStatusProcessing,
			PlacedAt:  now,
		})
		total += item.ProductPrice * float64(item.Quantity)
	}
	return lineItems, total
}

// CreateOrderFromCart commits the user's active cart as one order. The cart
// is claimed with a single conditional update before anything is written, so
// a duplicate request finds no active cart and returns the already-created
// order (via the checkout record) or ErrEmptyCart.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID primitive.ObjectID, address models.ShippingAddress, paymentMethod string) (*models.Order, error) {
	locked, err := redisx.AcquireCheckoutLock(ctx, s.rdb, userID.Hex())
	if err != nil {
		logError("CreateOrderFromCart", err, map[string]any{"userId": userID.Hex()})
	} else if !locked {
		return nil, ErrCheckoutInProgress
	}
	defer redisx.ReleaseCheckoutLock(ctx, s.rdb, userID.Hex())

	cart, err := s.carts.ClaimActiveCart(ctx, userID)
	if err == ErrEmptyCart {
		if existing := s.lookupCommittedOrder(ctx, userID); existing != nil {
			return existing, nil
		}
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items, total := buildLineItems(cart.Items, now)
	order := models.Order{
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   paymentMethod,
		ShippingAddress: address,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := s.collection().InsertOne(ctx, order)
	if err != nil {
		logError("CreateOrderFromCart", err, map[string]any{"userId": userID.Hex()})
		// Give the cart back so the user can retry checkout.
		_ = s.carts.ReopenCart(ctx, cart.ID)
		return nil, err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	s.fanOutSellerOrders(ctx, &order)

	if err := s.carts.ClearItems(ctx, cart.ID); err != nil {
		logError("CreateOrderFromCart", err, map[string]any{"cartId": cart.ID.Hex()})
	}
	if err := redisx.RecordCheckoutOrder(ctx, s.rdb, cart.ID.Hex(), order.ID.Hex()); err != nil {
		logError("CreateOrderFromCart", err, map[string]any{"orderId": order.ID.Hex()})
	}

	s.publishOrderCreated(&order)
	return &order, nil
}

// CreateOrderForSingleProduct places a one-item order at the product's
// current price. Unlike the cart path the price is fetched live here; that
// asymmetry is deliberate.
func (s *OrderService) CreateOrderForSingleProduct(ctx context.Context, userID, productID primitive.ObjectID, variantIndex, quantity int, address models.ShippingAddress, paymentMethod string) (*models.Order, error) {
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
	order := models.Order{
		OrderNumber: uuid.NewString(),
		UserID:      userID,
		Items: []models.OrderLineItem{{
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
			Status:    models.ItemStatusProcessing,
			PlacedAt:  now,
		}},
		TotalAmount:     price * float64(quantity),
		PaymentMethod:   paymentMethod,
		ShippingAddress: address,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := s.collection().InsertOne(ctx, order)
	if err != nil {
		logError("CreateOrderForSingleProduct", err, map[string]any{
			"userId":    userID.Hex(),
			"productId": productID.Hex(),
		})
		return nil, err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	s.fanOutSellerOrders(ctx, &order)
	s.publishOrderCreated(&order)
	return &order, nil
}

// buildSellerOrderInputs resolves the current seller of every line item and
// shapes the per-item sub-order inputs. Items whose seller cannot be
// resolved are skipped, not failed: fan-out is best-effort.
func buildSellerOrderInputs(ctx context.Context, order *models.Order, catalog Catalog) []SellerOrderInput {
	inputs := make([]SellerOrderInput, 0, len(order.Items))
	for _, item := range order.Items {
		sellerID, err := catalog.GetSellerIDFromProductID(ctx, item.ProductID)
		if err != nil {
			logError("buildSellerOrderInputs", err, map[string]any{
				"orderId":   order.ID.Hex(),
				"productId": item.ProductID.Hex(),
			})
			continue
		}
		inputs = append(inputs, SellerOrderInput{
			OrderID:    order.ID,
			ProductID:  item.ProductID,
			SellerID:   sellerID,
			CustomerID: order.UserID,
			SaleAmount: item.Price * float64(item.Quantity),
			Status:     item.Status,
			PlacedAt:   item.PlacedAt,
		})
	}
	return inputs
}

// fanOutSellerOrders creates one seller order per line item. A failure on
// one item never rolls back the order or stops the remaining items.
func (s *OrderService) fanOutSellerOrders(ctx context.Context, order *models.Order) {
	for _, input := range buildSellerOrderInputs(ctx, order, s.catalog) {
		if _, err := s.sellers.CreateSellerOrder(ctx, input); err != nil {
			logError("fanOutSellerOrders", err, map[string]any{
				"orderId":   order.ID.Hex(),
				"productId": input.ProductID.Hex(),
			})
		}
	}
}

func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}
	items := make([]events.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, events.LineItem{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	s.events.OrderCreated(events.OrderCreatedPayload{
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.Hex(),
		Items:       items,
		TotalAmount: order.TotalAmount,
	})
}

// retryLookupCartID decides whether a failed claim looks like a duplicate
// checkout and, if so, names the cart the first request committed. An active
// cart still existing means the claim failed because that cart is empty, not
// because another request raced it.
func retryLookupCartID(active, latestCompleted *models.Cart) (primitive.ObjectID, bool) {
	if active != nil || latestCompleted == nil {
		return primitive.NilObjectID, false
	}
	return latestCompleted.ID, true
}

// lookupCommittedOrder resolves the order a duplicate checkout request
// already created, via the idempotency record keyed by the committed cart.
func (s *OrderService) lookupCommittedOrder(ctx context.Context, userID primitive.ObjectID) *models.Order {
	active, err := s.carts.GetUserCart(ctx, userID)
	if err != nil {
		return nil
	}
	latest, err := s.carts.LatestCompletedCart(ctx, userID)
	if err != nil {
		return nil
	}
	cartID, ok := retryLookupCartID(active, latest)
	if !ok {
		return nil
	}

	idHex, err := redisx.LookupCheckoutOrder(ctx, s.rdb, cartID.Hex())
	if err != nil || idHex == "" {
		return nil
	}
	orderID, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil
	}
	var order models.Order
	if err := s.collection().FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order); err != nil {
		return nil
	}
	return &order
}

// authorizeItemUpdate locates the line item for productID on the order and
// checks that sellerID currently owns the product, resolved live from the
// catalog rather than from anything cached on the order.
func authorizeItemUpdate(ctx context.Context, catalog Catalog, order *models.Order, productID, sellerID primitive.ObjectID) (int, error) {
	idx := order.ItemByProductID(productID)
	if idx < 0 {
		return -1, ErrNotFound
	}
	if err := NewOwnershipVerifier(catalog).Verify(ctx, productID, sellerID); err != nil {
		return -1, err
	}
	return idx, nil
}

// itemStatusUpdate builds the $set document for an atomic positional update
// of one line item. Only the matched item's fields and the order-level
// updatedAt are touched, so concurrent updates on sibling items cannot lose
// each other's writes.
func itemStatusUpdate(status string, now time.Time) bson.M {
	set := bson.M{
		"items.$.product_order_status": status,
		"updatedAt":                    now,
	}
	if field := models.StatusTimestampField(status); field != "" {
		set["items.$."+field] = now
	}
	return bson.M{"$set": set}
}

// UpdateProductOrderStatus transitions one line item, stamps the matching
// timestamp and recomputes the aggregate order status. Exactly one item is
// mutated per call.
func (s *OrderService) UpdateProductOrderStatus(ctx context.Context, orderID, productID, sellerID primitive.ObjectID, status string) (*models.Order, error) {
	if !models.ValidItemStatus(status) {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	err := s.collection().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateProductOrderStatus", err, map[string]any{"orderId": orderID.Hex()})
		return nil, err
	}

	idx, err := authorizeItemUpdate(ctx, s.catalog, &order, productID, sellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.applyItemStatus(ctx, orderID, productID, status, now); err != nil {
		return nil, err
	}

	models.ApplyItemStatus(&order.Items[idx], status, now)
	order.UpdatedAt = now
	order.Status = s.recomputeAggregate(ctx, &order, now)

	s.publishItemStatus(&order, productID, sellerID, status)
	return &order, nil
}

// applyItemStatus writes the transition as a single positional update.
func (s *OrderService) applyItemStatus(ctx context.Context, orderID, productID primitive.ObjectID, status string, now time.Time) error {
	res, err := s.collection().UpdateOne(ctx,
		bson.M{"_id": orderID, "items.productId": productID},
		itemStatusUpdate(status, now),
	)
	if err != nil {
		logError("applyItemStatus", err, map[string]any{"orderId": orderID.Hex()})
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// desiredAggregateStatus derives the status the parent order should carry
// for its items and reports whether it differs from the current one.
// Completed holds iff every item is Delivered, so a return or cancellation on
// any item after completion drops the order back to Pending. A Cancelled
// order is customer-owned and is never rewritten here.
func desiredAggregateStatus(current string, items []models.OrderLineItem) (string, bool) {
	if current == models.OrderStatusCancelled {
		return current, false
	}
	aggregate := models.AggregateOrderStatus(items)
	return aggregate, aggregate != current
}

// writeAggregateStatus persists a recomputed aggregate status onto the order.
func writeAggregateStatus(ctx context.Context, orders *mongo.Collection, orderID primitive.ObjectID, status string, now time.Time) error {
	_, err := orders.UpdateByID(ctx, orderID, bson.M{"$set": bson.M{
		"order_status": status,
		"updatedAt":    now,
	}})
	return err
}

// recomputeAggregate re-derives the parent status from the items and writes
// it back whenever it changed, in either direction. The order passed in must
// already reflect the item transition.
func (s *OrderService) recomputeAggregate(ctx context.Context, order *models.Order, now time.Time) string {
	status, changed := desiredAggregateStatus(order.Status, order.Items)
	if !changed {
		return order.Status
	}
	if err := writeAggregateStatus(ctx, s.collection(), order.ID, status, now); err != nil {
		logError("recomputeAggregate", err, map[string]any{"orderId": order.ID.Hex()})
		return order.Status
	}
	return status
}

func (s *OrderService) publishItemStatus(order *models.Order, productID, sellerID primitive.ObjectID, status string) {
	if s.events == nil {
		return
	}
	s.events.ItemStatusChanged(events.ItemStatusChangedPayload{
		OrderID:     order.ID.Hex(),
		ProductID:   productID.Hex(),
		SellerID:    sellerID.Hex(),
		Status:      status,
		OrderStatus: order.Status,
	})
}

// GetOrderByID returns the order with product details attached to each line
// item. A dangling product reference leaves that item's details nil rather
// than failing the read.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.collection().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("GetOrderByID", err, map[string]any{"orderId": orderID.Hex()})
		return nil, err
	}

	for i := range order.Items {
		product, err := s.catalog.GetProductByID(ctx, order.Items[i].ProductID)
		if err != nil {
			logError("GetOrderByID", err, map[string]any{
				"orderId":   orderID.Hex(),
				"productId": order.Items[i].ProductID.Hex(),
			})
			continue
		}
		order.Items[i].ProductDetails = product
	}
	return &order, nil
}

// GetUserOrders lists a user's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		logError("GetUserOrders", err, map[string]any{"userId": userID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder sets the aggregate status to Cancelled when the order belongs
// to userID. Line items and seller orders are left untouched; per-item
// cancellation goes through the status update path.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID primitive.ObjectID) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": orderID, "userId": userID},
		bson.M{"$set": bson.M{
			"order_status": models.OrderStatusCancelled,
			"updatedAt":    time.Now(),
		}},
		opts,
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("CancelOrder", err, map[string]any{"orderId": orderID.Hex()})
		return nil, err
	}
	return &order, nil
}
