package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
	"marketplace/internal/services"
)

type createOrderFromCartRequest struct {
	UserID          string                 `json:"userId" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

type createSingleProductOrderRequest struct {
	UserID          string                 `json:"userId" binding:"required"`
	ProductID       string                 `json:"productId" binding:"required"`
	VariantIndex    int                    `json:"variantIndex"`
	Quantity        int                    `json:"quantity" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

type updateItemStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	SellerID string `json:"sellerId" binding:"required"`
}

type cancelOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
}

// CreateOrderFromCart converts the user's active cart into an order.
// An empty or missing cart is a client condition, not a server failure.
func CreateOrderFromCart(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/from-cart"
		defer handlePanic(c, route)

		var req createOrderFromCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "userId, shippingAddress and paymentMethod are required")
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := orders.CreateOrderFromCart(ctx, userID, req.ShippingAddress, req.PaymentMethod)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    order,
			"message": "Order created successfully from cart",
		})
	}
}

// CreateOrderForSingleProduct places a one-item order at the product's
// current price.
func CreateOrderForSingleProduct(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order/single-product"
		defer handlePanic(c, route)

		var req createSingleProductOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "userId, productId, quantity, shippingAddress and paymentMethod are required")
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := orders.CreateOrderForSingleProduct(ctx, userID, productID, req.VariantIndex, req.Quantity, req.ShippingAddress, req.PaymentMethod)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    order,
			"message": "Order created successfully for single product",
		})
	}
}

// GetOrderByID returns one order with product details on each line item.
func GetOrderByID(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/:orderId"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid order ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.GetOrderByID(ctx, orderID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   order,
			"message": "Order retrieved successfully",
		})
	}
}

// GetUserOrders lists a user's orders, newest first.
func GetUserOrders(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order/user/:userId"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid user ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := orders.GetUserOrders(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orders":  result,
			"message": "Orders retrieved successfully",
		})
	}
}

// UpdateProductOrderStatus transitions one line item on behalf of the seller
// who owns its product. A missing order or item is a 404; a seller who does
// not own the product gets a 403, never a silent success.
func UpdateProductOrderStatus(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /order/:orderId/items/:itemId/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid order ID format")
			return
		}
		productID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid item ID format")
			return
		}

		var req updateItemStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "status and sellerId are required")
			return
		}
		sellerID, err := primitive.ObjectIDFromHex(req.SellerID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid sellerId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.UpdateProductOrderStatus(ctx, orderID, productID, sellerID, req.Status)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   order,
			"message": "Product order status updated successfully",
		})
	}
}

// CancelOrder sets the aggregate status to Cancelled for an order owned by
// the requesting user. Line items keep their own statuses.
func CancelOrder(orders *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /order/cancel"
		defer handlePanic(c, route)

		var req cancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "orderId and userId are required")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid order ID or user ID format")
			return
		}
		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid order ID or user ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := orders.CancelOrder(ctx, orderID, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order":   order,
			"message": "Order cancelled successfully",
		})
	}
}

var errMissingUser = errors.New("userId missing in context")

// contextUserID reads the authenticated user injected by the auth
// middleware.
func contextUserID(c *gin.Context) (primitive.ObjectID, error) {
	value, ok := c.Get("userId")
	if !ok {
		return primitive.NilObjectID, errMissingUser
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errMissingUser
	}
	return userID, nil
}
