package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace/internal/services"
)

type createReviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

type replyRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CreateReview records a product review by the authenticated user.
func CreateReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "productId and rating are required")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		review, err := reviews.CreateReview(ctx, userID, productID, req.Rating, req.Title, req.Comment)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    review,
			"message": "Review created successfully",
		})
	}
}

// UpdateReview edits a review owned by the caller.
func UpdateReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /reviews/:reviewId"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid review ID format")
			return
		}

		var req updateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "rating is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		review, err := reviews.UpdateReview(ctx, reviewID, userID, req.Rating, req.Title, req.Comment)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
			"message": "Review updated successfully",
		})
	}
}

// DeleteReview removes a review owned by the caller.
func DeleteReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /reviews/:reviewId"
		defer handlePanic(c, route)

		userID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid review ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := reviews.DeleteReview(ctx, reviewID, userID); err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Review deleted successfully",
		})
	}
}

// ListProductReviews returns all reviews for one product.
func ListProductReviews(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews/product/:productId"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := reviews.ListProductReviews(ctx, productID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    result,
			"message": "Reviews retrieved successfully",
		})
	}
}

// AddReviewReply lets the seller of the reviewed product respond to a
// review.
func AddReviewReply(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews/:reviewId/replies"
		defer handlePanic(c, route)

		sellerID, err := contextUserID(c)
		if err != nil {
			respondError(c, http.StatusUnauthorized, route, "authentication required")
			return
		}

		reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid review ID format")
			return
		}

		var req replyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, route, "comment is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		review, err := reviews.AddReply(ctx, reviewID, sellerID, req.Comment)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    review,
			"message": "Reply added successfully",
		})
	}
}
