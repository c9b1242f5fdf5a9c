package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/services"
)

func newStatusUpdateContext(t *testing.T, orderID, itemID string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("PUT", "/api/v1/order/"+orderID+"/items/"+itemID+"/status", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{
		{Key: "orderId", Value: orderID},
		{Key: "itemId", Value: itemID},
	}
	return c, rec
}

func TestUpdateProductOrderStatusRejectsInvalidStatusValue(t *testing.T) {
	// The enum check runs before any database access, so a service with no
	// database behind it is enough here.
	orders := services.NewOrderService(nil, nil, nil, nil, nil, nil)
	handler := UpdateProductOrderStatus(orders)

	c, rec := newStatusUpdateContext(t,
		primitive.NewObjectID().Hex(),
		primitive.NewObjectID().Hex(),
		gin.H{"status": "shipped", "sellerId": primitive.NewObjectID().Hex()},
	)
	handler(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown status value, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if success, _ := body["success"].(bool); success {
		t.Fatal("expected success=false in the error envelope")
	}
}

func TestUpdateProductOrderStatusRejectsMissingBodyFields(t *testing.T) {
	orders := services.NewOrderService(nil, nil, nil, nil, nil, nil)
	handler := UpdateProductOrderStatus(orders)

	c, rec := newStatusUpdateContext(t,
		primitive.NewObjectID().Hex(),
		primitive.NewObjectID().Hex(),
		gin.H{"status": "Shipped"},
	)
	handler(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when sellerId is missing, got %d", rec.Code)
	}
}

func TestUpdateProductOrderStatusRejectsMalformedIDs(t *testing.T) {
	orders := services.NewOrderService(nil, nil, nil, nil, nil, nil)
	handler := UpdateProductOrderStatus(orders)

	c, rec := newStatusUpdateContext(t, "not-an-id", primitive.NewObjectID().Hex(),
		gin.H{"status": "Shipped", "sellerId": primitive.NewObjectID().Hex()})
	handler(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed order id, got %d", rec.Code)
	}
}

func TestCreateOrderFromCartRejectsIncompleteAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orders := services.NewOrderService(nil, nil, nil, nil, nil, nil)
	handler := CreateOrderFromCart(orders)

	raw, _ := json.Marshal(gin.H{
		"userId": primitive.NewObjectID().Hex(),
		"shippingAddress": gin.H{
			"fullName": "Jane Doe",
			"city":     "Springfield",
		},
		"paymentMethod": "card",
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("POST", "/api/v1/order/from-cart", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an incomplete shipping address, got %d", rec.Code)
	}
}
