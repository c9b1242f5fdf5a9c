package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SellerOrder is the seller-scoped projection of a single order line item,
// created once per item when the parent order is placed. It lets a seller see
// only their portion of a multi-seller order. OrderStatus mirrors the parent
// line item's status and is written separately; the parent order remains the
// reference when the two disagree.
type SellerOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID     primitive.ObjectID `bson:"orderId" json:"orderId"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	SellerID    primitive.ObjectID `bson:"sellerId" json:"sellerId"`
	CustomerID  primitive.ObjectID `bson:"customerId" json:"customerId"`
	SaleAmount  float64            `bson:"saleAmount" json:"saleAmount"`
	OrderStatus string             `bson:"orderStatus" json:"orderStatus"`
	PlacedAt    time.Time          `bson:"placedAt" json:"placedAt"`
	ShippedAt   *time.Time         `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	ReturnedAt  *time.Time         `bson:"returnedAt,omitempty" json:"returnedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Display-only summaries attached on read paths, never persisted.
	OrderSummary   *Order   `bson:"-" json:"order,omitempty"`
	ProductSummary *Product `bson:"-" json:"product,omitempty"`
}

// SellerOrderStats is the aggregate result over a seller's orders. All fields
// are zero when the seller has no matching records.
type SellerOrderStats struct {
	TotalOrders       int64   `bson:"totalOrders" json:"totalOrders"`
	TotalSales        float64 `bson:"totalSales" json:"totalSales"`
	AverageOrderValue float64 `bson:"averageOrderValue" json:"averageOrderValue"`
}

// MonthlySales is one month's bucket in a seller's sales breakdown.
type MonthlySales struct {
	Year        int     `bson:"year" json:"year"`
	Month       int     `bson:"month" json:"month"`
	TotalSales  float64 `bson:"totalSales" json:"totalSales"`
	TotalOrders int64   `bson:"totalOrders" json:"totalOrders"`
}

// SellerSalesData is the monthly sales report for a seller: a summary over
// the whole range plus per-month buckets, newest first.
type SellerSalesData struct {
	Summary      SellerOrderStats `json:"summary"`
	MonthlySales []MonthlySales   `json:"monthlySales"`
}
