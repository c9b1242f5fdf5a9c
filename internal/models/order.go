package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingAddress is the delivery address snapshot embedded in an order.
type ShippingAddress struct {
	FullName      string `bson:"fullName" json:"fullName" binding:"required"`
	Phone         string `bson:"phone" json:"phone" binding:"required"`
	StreetAddress string `bson:"streetAddress" json:"streetAddress" binding:"required"`
	City          string `bson:"city" json:"city" binding:"required"`
	State         string `bson:"state" json:"state" binding:"required"`
	ZipCode       string `bson:"zipCode" json:"zipCode" binding:"required"`
	Country       string `bson:"country" json:"country" binding:"required"`
}

// OrderLineItem is one product/quantity/price entry inside an order. The
// identity fields (productId, quantity, price) are fixed at creation time;
// only the status and its timestamps change afterwards. Price is the unit
// price snapshot taken when the item was ordered, not the live product price.
type OrderLineItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	Status      string             `bson:"product_order_status" json:"product_order_status"`
	PlacedAt    time.Time          `bson:"placedAt" json:"placedAt"`
	ShippedAt   *time.Time         `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt *time.Time         `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	ReturnedAt  *time.Time         `bson:"returnedAt,omitempty" json:"returnedAt,omitempty"`

	// ProductDetails is attached on read paths for display and is never
	// persisted. Nil when the referenced product no longer resolves.
	ProductDetails *Product `bson:"-" json:"productDetails,omitempty"`
}

// Order is the customer-facing aggregate for one checkout action. Items may
// belong to different sellers; each line item carries its own fulfillment
// status while Status holds the aggregate value.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderLineItem    `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	Status          string             `bson:"order_status" json:"order_status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ItemByProductID returns the index of the line item referencing productID,
// or -1 when the order has no such item.
func (o *Order) ItemByProductID(productID primitive.ObjectID) int {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
