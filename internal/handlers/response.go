package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"marketplace/internal/services"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "internal server error",
		})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps service sentinels onto the response envelope.
// Expected conditions (empty cart, missing records, failed authorization)
// never surface as 500.
func respondServiceError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrCheckoutInProgress),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, route, err.Error())
	case errors.Is(err, services.ErrDuplicate):
		respondError(c, http.StatusConflict, route, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		respondError(c, http.StatusForbidden, route, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, route, "internal server error")
	}
}
