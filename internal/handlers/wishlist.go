package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/services"
)

type wishlistItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// GetWishlist returns the caller's wishlist with product details attached.
func GetWishlist(wishlists *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /wishlist"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		wishlist, err := wishlists.GetWishlist(ctx, userID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    wishlist,
			"message": "Wishlist retrieved successfully",
		})
	}
}

// AddToWishlist adds a product to the caller's wishlist. Adding the same
// product twice is a no-op.
func AddToWishlist(wishlists *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /wishlist/items"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		var req wishlistItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "productId is required")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		wishlist, err := wishlists.AddToWishlist(ctx, userID, productID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    wishlist,
			"message": "Product added to wishlist",
		})
	}
}

// RemoveFromWishlist deletes one product from the caller's wishlist.
func RemoveFromWishlist(wishlists *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /wishlist/items/:productId"
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

		wishlist, err := wishlists.RemoveFromWishlist(ctx, userID, productID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    wishlist,
			"message": "Product removed from wishlist",
		})
	}
}

// ClearWishlist empties the caller's wishlist.
func ClearWishlist(wishlists *services.WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /wishlist"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := wishlists.ClearWishlist(ctx, userID); err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Wishlist cleared",
		})
	}
}
