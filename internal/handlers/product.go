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

type createProductRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Category    []string         `json:"category"`
	Variants    []models.Variant `json:"variants" binding:"required,min=1,dive"`
}

type updateStockRequest struct {
	VariantIndex int  `json:"variantIndex"`
	Stock        *int `json:"stock" binding:"required"`
}

// CreateProduct registers a new catalog entry owned by the authenticated
// seller.
func CreateProduct(catalog *services.ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "title and at least one variant are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := catalog.CreateProduct(ctx, models.Product{
			Seller:      sellerID,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Variants:    req.Variants,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    product,
			"message": "Product created successfully",
		})
	}
}

// GetProductByID returns one catalog entry.
func GetProductByID(catalog *services.ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:productId"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := catalog.GetProductByID(ctx, productID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if product == nil {
			respondError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    product,
			"message": "Product retrieved successfully",
		})
	}
}

// GetSellerProducts lists the authenticated seller's active products.
func GetSellerProducts(catalog *services.ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/mine"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products, err := catalog.ActiveSellerProducts(ctx, sellerID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    products,
			"message": "Products retrieved successfully",
		})
	}
}

// GetSellerStockLevels returns stock per variant across the seller's active
// products.
func GetSellerStockLevels(catalog *services.ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/stock"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		levels, err := catalog.SellerStockLevels(ctx, sellerID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    levels,
			"message": "Stock levels retrieved successfully",
		})
	}
}

// UpdateVariantStock sets the stock of one variant on a product the caller
// owns.
func UpdateVariantStock(catalog *services.ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:productId/stock"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		var req updateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Stock == nil || *req.Stock < 0 {
			respondError(c, http.StatusBadRequest, route, "a non-negative stock value is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		product, err := catalog.UpdateVariantStock(ctx, sellerID, productID, req.VariantIndex, *req.Stock)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    product,
			"message": "Stock updated successfully",
		})
	}
}
