package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace/internal/events"
	"marketplace/internal/models"
)

// SellerOrderFilters narrow a seller order listing. All set fields are
// combined with AND.
type SellerOrderFilters struct {
	SellerID  primitive.ObjectID
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// Pagination describes one page of a listing. Pages are 1-indexed.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
}

// SellerOrderPage is one page of seller orders plus the page arithmetic.
type SellerOrderPage struct {
	Orders     []models.SellerOrder `json:"orders"`
	Pagination Pagination           `json:"pagination"`
}

// SellerOrderService creates and serves the seller-scoped sub-orders and
// applies seller-initiated status transitions back onto the parent order.
type SellerOrderService struct {
	db      *mongo.Database
	catalog Catalog
	events  *events.Publisher
}

func NewSellerOrderService(db *mongo.Database, catalog Catalog, publisher *events.Publisher) *SellerOrderService {
	return &SellerOrderService{db: db, catalog: catalog, events: publisher}
}

func (s *SellerOrderService) collection() *mongo.Collection {
	return s.db.Collection("sellerorders")
}

func (s *SellerOrderService) ordersCollection() *mongo.Collection {
	return s.db.Collection("orders")
}

// validate checks required references only; there is no business validation
// here and no idempotency guard, so calling CreateSellerOrder twice with the
// same input stores two records.
func (in SellerOrderInput) validate() error {
	if in.OrderID.IsZero() || in.ProductID.IsZero() || in.SellerID.IsZero() {
		return ErrValidation
	}
	if in.SaleAmount < 0 {
		return ErrValidation
	}
	return nil
}

// CreateSellerOrder stores the seller-scoped projection of one line item.
func (s *SellerOrderService) CreateSellerOrder(ctx context.Context, input SellerOrderInput) (*models.SellerOrder, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ItemStatusPending
	}
	placedAt := input.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	now := time.Now()
	sellerOrder := models.SellerOrder{
		OrderID:     input.OrderID,
		ProductID:   input.ProductID,
		SellerID:    input.SellerID,
		CustomerID:  input.CustomerID,
		SaleAmount:  input.SaleAmount,
		OrderStatus: status,
		PlacedAt:    placedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := s.collection().InsertOne(ctx, sellerOrder)
	if err != nil {
		logError("CreateSellerOrder", err, map[string]any{
			"orderId":  input.OrderID.Hex(),
			"sellerId": input.SellerID.Hex(),
		})
		return nil, err
	}
	sellerOrder.ID = res.InsertedID.(primitive.ObjectID)
	return &sellerOrder, nil
}

// sellerOrderQuery turns the filters into a conjunctive Mongo query.
func sellerOrderQuery(filters SellerOrderFilters) bson.M {
	query := bson.M{}
	if !filters.SellerID.IsZero() {
		query["sellerId"] = filters.SellerID
	}
	if filters.Status != "" {
		query["orderStatus"] = filters.Status
	}
	if filters.StartDate != nil && filters.EndDate != nil {
		query["createdAt"] = bson.M{
			"$gte": *filters.StartDate,
			"$lte": *filters.EndDate,
		}
	}
	return query
}

// normalizePagination applies the 1-indexed page and default limit of 10.
func normalizePagination(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

// GetSellerOrders returns one page of seller orders, newest first, with
// order and product summaries attached for display.
func (s *SellerOrderService) GetSellerOrders(ctx context.Context, filters SellerOrderFilters, page, limit int64) (*SellerOrderPage, error) {
	page, limit = normalizePagination(page, limit)
	query := sellerOrderQuery(filters)

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.collection().Find(ctx, query, opts)
	if err != nil {
		logError("GetSellerOrders", err, map[string]any{"sellerId": filters.SellerID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	sellerOrders := make([]models.SellerOrder, 0)
	if err := cursor.All(ctx, &sellerOrders); err != nil {
		return nil, err
	}

	total, err := s.collection().CountDocuments(ctx, query)
	if err != nil {
		logError("GetSellerOrders", err, map[string]any{"sellerId": filters.SellerID.Hex()})
		return nil, err
	}

	for i := range sellerOrders {
		s.attachSummaries(ctx, &sellerOrders[i])
	}

	return &SellerOrderPage{
		Orders: sellerOrders,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// attachSummaries loads the parent order and product for display. Missing
// references leave the summary nil, they never fail the listing.
func (s *SellerOrderService) attachSummaries(ctx context.Context, sellerOrder *models.SellerOrder) {
	var order models.Order
	if err := s.ordersCollection().FindOne(ctx, bson.M{"_id": sellerOrder.OrderID}).Decode(&order); err == nil {
		sellerOrder.OrderSummary = &order
	}
	if product, err := s.catalog.GetProductByID(ctx, sellerOrder.ProductID); err == nil {
		sellerOrder.ProductSummary = product
	}
}

// GetSellerOrderByID returns one seller order with summaries attached.
func (s *SellerOrderService) GetSellerOrderByID(ctx context.Context, sellerOrderID primitive.ObjectID) (*models.SellerOrder, error) {
	var sellerOrder models.SellerOrder
	err := s.collection().FindOne(ctx, bson.M{"_id": sellerOrderID}).Decode(&sellerOrder)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("GetSellerOrderByID", err, map[string]any{"sellerOrderId": sellerOrderID.Hex()})
		return nil, err
	}
	s.attachSummaries(ctx, &sellerOrder)
	return &sellerOrder, nil
}

// GetSellerOrderStats aggregates count, sum and average sale amount over the
// seller's orders in the optional date range. An empty result set yields
// zeros, never an error.
func (s *SellerOrderService) GetSellerOrderStats(ctx context.Context, sellerID primitive.ObjectID, startDate, endDate *time.Time) (*models.SellerOrderStats, error) {
	match := bson.M{"sellerId": sellerID}
	if startDate != nil && endDate != nil {
		match["createdAt"] = bson.M{"$gte": *startDate, "$lte": *endDate}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalOrders":       bson.M{"$sum": 1},
			"totalSales":        bson.M{"$sum": "$saleAmount"},
			"averageOrderValue": bson.M{"$avg": "$saleAmount"},
		}}},
	}

	cursor, err := s.collection().Aggregate(ctx, pipeline)
	if err != nil {
		logError("GetSellerOrderStats", err, map[string]any{"sellerId": sellerID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.SellerOrderStats
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.SellerOrderStats{}, nil
	}
	return &results[0], nil
}

// GetSellerSalesData returns the monthly sales breakdown for a seller,
// newest month first, excluding cancelled orders, plus a summary over the
// whole range.
func (s *SellerOrderService) GetSellerSalesData(ctx context.Context, sellerID primitive.ObjectID, startDate, endDate *time.Time) (*models.SellerSalesData, error) {
	match := bson.M{
		"sellerId":    sellerID,
		"orderStatus": bson.M{"$ne": models.ItemStatusCancelled},
	}
	if startDate != nil && endDate != nil {
		match["createdAt"] = bson.M{"$gte": *startDate, "$lte": *endDate}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"totalSales":  bson.M{"$sum": "$saleAmount"},
			"totalOrders": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: -1},
			{Key: "_id.month", Value: -1},
		}}},
	}

	cursor, err := s.collection().Aggregate(ctx, pipeline)
	if err != nil {
		logError("GetSellerSalesData", err, map[string]any{"sellerId": sellerID.Hex()})
		return nil, err
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		TotalSales  float64 `bson:"totalSales"`
		TotalOrders int64   `bson:"totalOrders"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}

	data := &models.SellerSalesData{MonthlySales: make([]models.MonthlySales, 0, len(buckets))}
	for _, b := range buckets {
		data.MonthlySales = append(data.MonthlySales, models.MonthlySales{
			Year:        b.ID.Year,
			Month:       b.ID.Month,
			TotalSales:  b.TotalSales,
			TotalOrders: b.TotalOrders,
		})
		data.Summary.TotalSales += b.TotalSales
		data.Summary.TotalOrders += b.TotalOrders
	}
	if data.Summary.TotalOrders > 0 {
		data.Summary.AverageOrderValue = data.Summary.TotalSales / float64(data.Summary.TotalOrders)
	}
	return data, nil
}

// UpdateProductSellerOrderStatus is the seller-facing transition: it applies
// the status to the matching line item on the parent order, then mirrors it
// onto the seller order itself. Ownership is re-verified against the live
// product, and callerID must be that owner. The two writes are not atomic;
// the parent order is written first and wins on partial failure.
func (s *SellerOrderService) UpdateProductSellerOrderStatus(ctx context.Context, sellerOrderID, callerID primitive.ObjectID, status string) (*models.SellerOrder, error) {
	if !models.ValidItemStatus(status) {
		return nil, ErrInvalidStatus
	}

	var sellerOrder models.SellerOrder
	err := s.collection().FindOne(ctx, bson.M{"_id": sellerOrderID}).Decode(&sellerOrder)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateProductSellerOrderStatus", err, map[string]any{"sellerOrderId": sellerOrderID.Hex()})
		return nil, err
	}

	var order models.Order
	err = s.ordersCollection().FindOne(ctx, bson.M{"_id": sellerOrder.OrderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logError("UpdateProductSellerOrderStatus", err, map[string]any{"orderId": sellerOrder.OrderID.Hex()})
		return nil, err
	}

	idx, err := authorizeItemUpdate(ctx, s.catalog, &order, sellerOrder.ProductID, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := s.ordersCollection().UpdateOne(ctx,
		bson.M{"_id": order.ID, "items.productId": sellerOrder.ProductID},
		itemStatusUpdate(status, now),
	)
	if err != nil {
		logError("UpdateProductSellerOrderStatus", err, map[string]any{"orderId": order.ID.Hex()})
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	models.ApplyItemStatus(&order.Items[idx], status, now)
	if aggregate, changed := desiredAggregateStatus(order.Status, order.Items); changed {
		if err := writeAggregateStatus(ctx, s.ordersCollection(), order.ID, aggregate, now); err != nil {
			logError("UpdateProductSellerOrderStatus", err, map[string]any{"orderId": order.ID.Hex()})
		} else {
			order.Status = aggregate
		}
	}

	// Mirror the transition onto the seller order itself.
	set := bson.M{"orderStatus": status, "updatedAt": now}
	if field := models.StatusTimestampField(status); field != "" {
		set[field] = now
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = s.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": sellerOrderID},
		bson.M{"$set": set},
		opts,
	).Decode(&sellerOrder)
	if err != nil {
		logError("UpdateProductSellerOrderStatus", err, map[string]any{"sellerOrderId": sellerOrderID.Hex()})
		return nil, err
	}

	if s.events != nil {
		s.events.ItemStatusChanged(events.ItemStatusChangedPayload{
			OrderID:     order.ID.Hex(),
			ProductID:   sellerOrder.ProductID.Hex(),
			SellerID:    sellerOrder.SellerID.Hex(),
			Status:      status,
			OrderStatus: order.Status,
		})
	}
	return &sellerOrder, nil
}
