// Package fakeapi is an in-process stand-in for the BidStock backend. It
// serves every endpoint the client calls, with the envelope shape and status
// codes the real API uses, over an in-memory store. Integration tests and
// the mock-api command run it; nothing in the SDK depends on it.
package fakeapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// Server bundles the store and token secret behind a gin router.
type Server struct {
	store  *Store
	secret []byte
}

// NewServer creates a mock API over a fresh store.
func NewServer(secret string) *Server {
	return &Server{store: NewStore(), secret: []byte(secret)}
}

// Store exposes the backing store so tests can seed state directly.
func (s *Server) Store() *Store {
	return s.store
}

// requestLogger logs incoming requests with timing
func requestLogger(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Debug("mock API request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// Router configures all gin routes for the mock API
func (s *Server) Router() *gin.Engine {
	router := gin.New() // no default middleware for full control over logging

	router.Use(gin.Recovery()) // recover from panics
	router.Use(requestLogger)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", s.handleSignup)
		auth.POST("/signin", s.handleSignin)
	}

	authed := router.Group("/")
	authed.Use(s.requireAuth)

	bids := authed.Group("/bids")
	{
		bids.GET("", s.handleListBids)
		bids.GET("/my-bids", s.handleMyBids)
		bids.GET("/:bid_id", s.handleGetBid)
		bids.POST("", s.handleCreateBid)
	}

	offers := authed.Group("/offers")
	{
		offers.POST("", s.handlePlaceOffer)
		offers.POST("/:offer_id/accept", s.handleAcceptOffer)
		offers.GET("/bid/:bid_id", s.handleOffersByBid)
	}

	warehouses := authed.Group("/warehouses")
	{
		warehouses.GET("", s.handleListWarehouses)
		warehouses.GET("/my-warehouse", s.handleMyWarehouses)
		warehouses.POST("", s.handleCreateWarehouse)
	}

	rents := authed.Group("/rents")
	{
		rents.POST("", s.handleCreateRent)
		rents.GET("/my-rents", s.handleMyRents)
	}

	inventories := authed.Group("/inventories")
	{
		inventories.GET("/my-inventory", s.handleMyInventory)
		inventories.POST("", s.handleAddStock)
		inventories.PUT("/:inventory_id", s.handleUpdateStock)
	}

	authed.POST("/purchase-requests", s.handleCreatePurchaseRequest)

	txs := authed.Group("/transactions")
	{
		txs.POST("", s.handleCreateTransaction)
		txs.PUT("/:transaction_id", s.handleUpdateTransaction)
		txs.GET("/my-transactions", s.handleMyTransactions)
	}

	users := authed.Group("/users")
	{
		users.GET("/dashboard-stats", s.handleDashboardStats)
		users.GET("/:user_id", s.handleGetUser)
		users.PUT("/:user_id", s.handleUpdateUser)
	}

	return router
}
