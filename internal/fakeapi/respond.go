package fakeapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// jsonResponse sends a structured success body
func jsonResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// jsonError sends a structured error body
func jsonError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}

// mapError maps store and business errors to HTTP status and message
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, ErrBadCredential):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, ErrOfferTooLow):
		return http.StatusConflict, "offer amount too low"
	case errors.Is(err, ErrAuctionClosed):
		return http.StatusConflict, "auction is not open"
	case errors.Is(err, ErrOfferSettled):
		return http.StatusConflict, "offer already settled"
	case errors.Is(err, ErrNotSeller):
		return http.StatusForbidden, "only the seller may do this"
	case errors.Is(err, ErrFullyBooked):
		return http.StatusConflict, "warehouse is fully booked"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
