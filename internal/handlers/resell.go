package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/models"
	"marketplace/internal/services"
)

type createResellListingRequest struct {
	OriginalProduct string           `json:"originalProduct" binding:"required"`
	Title           string           `json:"title" binding:"required"`
	Variants        []models.Variant `json:"variants" binding:"required,min=1,dive"`
}

type updateResellListingRequest struct {
	Title    string           `json:"title"`
	Variants []models.Variant `json:"variants"`
}

type createNegotiationRequest struct {
	User         string  `json:"user" binding:"required"`
	Product      string  `json:"product" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required"`
	Price        float64 `json:"price"`
	VariantIndex int     `json:"variantIndex"`
}

// CreateResellListing publishes a markup listing owned by the authenticated
// seller over another seller's active product.
func CreateResellListing(resell *services.ResellService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /resell-products"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		var req createResellListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "originalProduct, title and at least one variant are required")
			return
		}
		originalID, err := primitive.ObjectIDFromHex(req.OriginalProduct)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		listing, err := resell.CreateResellListing(ctx, sellerID, originalID, req.Title, req.Variants)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    listing,
			"message": "Resell listing created successfully",
		})
	}
}

// GetSellerResellListings lists the authenticated seller's listings.
func GetSellerResellListings(resell *services.ResellService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /resell-products"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		listings, err := resell.GetSellerResellListings(ctx, sellerID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    listings,
			"message": "Resell listings retrieved successfully",
		})
	}
}

// UpdateResellListing changes the title and/or variants of a listing the
// caller owns.
func UpdateResellListing(resell *services.ResellService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /resell-products/:resellProductId"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}
		resellID, err := primitive.ObjectIDFromHex(c.Param("resellProductId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid resell product ID format")
			return
		}

		var req updateResellListingRequest
		if err := c.ShouldBindJSON(&req); err != nil || (req.Title == "" && req.Variants == nil) {
			respondError(c, http.StatusBadRequest, route, "a new title or variants are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		listing, err := resell.UpdateResellListing(ctx, sellerID, resellID, req.Title, req.Variants)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    listing,
			"message": "Resell listing updated successfully",
		})
	}
}

// DeleteResellListing soft-deletes a listing the caller owns.
func DeleteResellListing(resell *services.ResellService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /resell-products/:resellProductId"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}
		resellID, err := primitive.ObjectIDFromHex(c.Param("resellProductId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid resell product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := resell.DeleteResellListing(ctx, sellerID, resellID); err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Resell listing deleted successfully",
		})
	}
}

// CreateNegotiation records a per-customer price agreed by the authenticated
// seller for one product variant.
func CreateNegotiation(negotiations *services.NegotiationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /negotiated-products"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		var req createNegotiationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "user, product and quantity are required")
			return
		}
		userID, err := primitive.ObjectIDFromHex(req.User)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid user ID format")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.Product)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		record, err := negotiations.CreateNegotiatedPrice(ctx, services.NegotiatedPriceInput{
			SellerID:     sellerID,
			UserID:       userID,
			ProductID:    productID,
			Quantity:     req.Quantity,
			Price:        req.Price,
			VariantIndex: req.VariantIndex,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    record,
			"message": "Negotiated price created successfully",
		})
	}
}

// GetNegotiation returns one negotiated price record.
func GetNegotiation(negotiations *services.NegotiationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /negotiated-products/:negotiationId"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("negotiationId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid negotiation ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		record, err := negotiations.GetNegotiatedPrice(ctx, id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    record,
			"message": "Negotiated price retrieved successfully",
		})
	}
}

// GetSellerNegotiations lists the authenticated seller's negotiated prices.
func GetSellerNegotiations(negotiations *services.NegotiationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /negotiated-products"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		records, err := negotiations.GetSellerNegotiations(ctx, sellerID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    records,
			"message": "Negotiated prices retrieved successfully",
		})
	}
}

// DeleteNegotiation removes a negotiated price the caller owns.
func DeleteNegotiation(negotiations *services.NegotiationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /negotiated-products/:negotiationId"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}
		id, err := primitive.ObjectIDFromHex(c.Param("negotiationId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid negotiation ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := negotiations.DeleteNegotiatedPrice(ctx, sellerID, id); err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Negotiated price deleted successfully",
		})
	}
}
