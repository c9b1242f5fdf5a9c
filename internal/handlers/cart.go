package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/services"
)

type addCartItemRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	VariantIndex int    `json:"variantIndex"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

type updateCartItemRequest struct {
	// Pointer so an explicit zero survives binding; zero removes the line.
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the caller's active cart, or an empty cart shape when
// none exists yet.
func GetCart(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := carts.GetUserCart(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    cart,
			"message": "Cart retrieved successfully",
		})
	}
}

// AddCartItem adds a product to the caller's active cart, creating the cart
// on first use. Adding an existing product increments its quantity.
func AddCartItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "productId and a positive quantity are required")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := carts.AddItem(ctx, userID, productID, req.VariantIndex, req.Quantity)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    cart,
			"message": "Item added to cart",
		})
	}
}

// UpdateCartItem sets the quantity for one cart line. A quantity of zero or
// less removes the line.
func UpdateCartItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/items/:productId"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "quantity is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := carts.UpdateItemQuantity(ctx, userID, productID, *req.Quantity)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    cart,
			"message": "Cart item updated",
		})
	}
}

// RemoveCartItem deletes one product line from the caller's cart.
func RemoveCartItem(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := carts.RemoveItem(ctx, userID, productID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    cart,
			"message": "Item removed from cart",
		})
	}
}

// ClearCart empties the caller's active cart without deleting it.
func ClearCart(carts *services.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := carts.GetUserCart(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if cart != nil {
			if err := carts.ClearItems(ctx, cart.ID); err != nil {
				respondServiceError(c, route, err)
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cart cleared",
		})
	}
}
