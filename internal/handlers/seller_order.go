package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/services"
)

type updateSellerOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// parseDateRange reads optional startDate/endDate query params in
// YYYY-MM-DD form. The end date is pushed to the end of its day so a
// same-day range still matches.
func parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var start, end *time.Time
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, false
		}
		start = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, false
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	return start, end, true
}

// GetSellerOrders lists one seller's orders with optional status and date
// filters, paginated.
func GetSellerOrders(sellerOrders *services.SellerOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller-orders"
		defer handlePanic(c, route)

		sellerID, err := primitive.ObjectIDFromHex(c.Query("sellerId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "valid sellerId query parameter is required")
			return
		}

		start, end, ok := parseDateRange(c)
		if !ok {
			respondError(c, http.StatusBadRequest, route, "dates must be in YYYY-MM-DD format")
			return
		}

		filters := services.SellerOrderFilters{
			SellerID:  sellerID,
			Status:    c.Query("status"),
			StartDate: start,
			EndDate:   end,
		}
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "page and limit must be positive integers")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		result, err := sellerOrders.GetSellerOrders(ctx, filters, page, limit)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    result,
			"message": "Seller orders retrieved successfully",
		})
	}
}

// GetSellerOrderByID returns one seller order with its display summaries.
func GetSellerOrderByID(sellerOrders *services.SellerOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller-orders/:sellerOrderId"
		defer handlePanic(c, route)

		sellerOrderID, err := primitive.ObjectIDFromHex(c.Param("sellerOrderId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid seller order ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		sellerOrder, err := sellerOrders.GetSellerOrderByID(ctx, sellerOrderID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    sellerOrder,
			"message": "Seller order retrieved successfully",
		})
	}
}

// GetSellerOrderStats returns count, sum and average sale amount for one
// seller over an optional date range.
func GetSellerOrderStats(sellerOrders *services.SellerOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller-orders/stats"
		defer handlePanic(c, route)

		sellerID, err := primitive.ObjectIDFromHex(c.Query("sellerId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "valid sellerId query parameter is required")
			return
		}

		start, end, ok := parseDateRange(c)
		if !ok {
			respondError(c, http.StatusBadRequest, route, "dates must be in YYYY-MM-DD format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		stats, err := sellerOrders.GetSellerOrderStats(ctx, sellerID, start, end)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    stats,
			"message": "Seller order stats retrieved successfully",
		})
	}
}

// GetSellerSalesData returns the monthly sales breakdown plus summary
// figures for the seller dashboard.
func GetSellerSalesData(sellerOrders *services.SellerOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller-orders/sales-data"
		defer handlePanic(c, route)

		sellerID, err := primitive.ObjectIDFromHex(c.Query("sellerId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "valid sellerId query parameter is required")
			return
		}

		start, end, ok := parseDateRange(c)
		if !ok {
			respondError(c, http.StatusBadRequest, route, "dates must be in YYYY-MM-DD format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		data, err := sellerOrders.GetSellerSalesData(ctx, sellerID, start, end)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    data,
			"message": "Seller sales data retrieved successfully",
		})
	}
}

// UpdateSellerOrderStatus transitions the line item behind a seller order.
// The caller comes from the auth context, so a seller can never move
// another seller's items.
func UpdateSellerOrderStatus(sellerOrders *services.SellerOrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /seller-orders/:sellerOrderId/status"
		defer handlePanic(c, route)

		sellerOrderID, err := primitive.ObjectIDFromHex(c.Param("sellerOrderId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid seller order ID format")
			return
		}

		var req updateSellerOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "status is required")
			return
		}

		callerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		sellerOrder, err := sellerOrders.UpdateProductSellerOrderStatus(ctx, sellerOrderID, callerID, req.Status)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    sellerOrder,
			"message": "Seller order status updated successfully",
		})
	}
}
