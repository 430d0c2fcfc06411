package fakeapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=seller buyer warehouse_owner"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user, err := s.store.CreateUser(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}

	token, err := s.mintToken(user)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, err, "could not issue token")
		return
	}

	jsonResponse(c, http.StatusCreated, gin.H{"user": user, "token": token}, "account created")
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleSignin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}

	token, err := s.mintToken(user)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, err, "could not issue token")
		return
	}

	jsonResponse(c, http.StatusOK, gin.H{"user": user, "token": token}, "signed in")
}

func (s *Server) handleListBids(c *gin.Context) {
	jsonResponse(c, http.StatusOK, s.store.Auctions(), "bids retrieved successfully")
}

func (s *Server) handleMyBids(c *gin.Context) {
	user := currentUser(c)
	jsonResponse(c, http.StatusOK, s.store.AuctionsBySeller(user.UserID), "bids retrieved successfully")
}

func (s *Server) handleGetBid(c *gin.Context) {
	auction, err := s.store.GetAuction(c.Param("bid_id"))
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusOK, auction, "bid retrieved successfully")
}

type createBidRequest struct {
	ProductID string    `json:"product_id" binding:"required"`
	SellerID  string    `json:"seller_id"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	BasePrice float64   `json:"base_price" binding:"required,gt=0"`
}

func (s *Server) handleCreateBid(c *gin.Context) {
	var req createBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user := currentUser(c)
	auction := s.store.AddAuction(models.Auction{
		ProductID:  req.ProductID,
		SellerID:   user.UserID,
		SellerName: user.Name,
		BasePrice:  req.BasePrice,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	jsonResponse(c, http.StatusCreated, auction, "bid created successfully")
}

type placeOfferRequest struct {
	BidID        string  `json:"bid_id" binding:"required"`
	OfferedPrice float64 `json:"offered_price" binding:"required,gt=0"`
}

func (s *Server) handlePlaceOffer(c *gin.Context) {
	var req placeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user := currentUser(c)
	offer, err := s.store.AddOffer(req.BidID, user.UserID, user.Name, req.OfferedPrice)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusCreated, offer, "offer placed successfully")
}

func (s *Server) handleAcceptOffer(c *gin.Context) {
	user := currentUser(c)
	offer, err := s.store.AcceptOffer(c.Param("offer_id"), user.UserID)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusOK, offer, "offer accepted")
}

func (s *Server) handleOffersByBid(c *gin.Context) {
	jsonResponse(c, http.StatusOK, s.store.OffersByBid(c.Param("bid_id")), "offers retrieved successfully")
}

func (s *Server) handleListWarehouses(c *gin.Context) {
	jsonResponse(c, http.StatusOK, s.store.Warehouses(), "warehouses retrieved successfully")
}

func (s *Server) handleMyWarehouses(c *gin.Context) {
	user := currentUser(c)
	jsonResponse(c, http.StatusOK, s.store.WarehousesByOwner(user.UserID), "warehouses retrieved successfully")
}

type createWarehouseRequest struct {
	Name     string  `json:"name" binding:"required"`
	Location string  `json:"location" binding:"required"`
	Capacity int     `json:"capacity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

func (s *Server) handleCreateWarehouse(c *gin.Context) {
	var req createWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user := currentUser(c)
	warehouse := s.store.AddWarehouse(models.Warehouse{
		OwnerID:  user.UserID,
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
		Price:    req.Price,
	})
	jsonResponse(c, http.StatusCreated, warehouse, "warehouse created successfully")
}

type createRentRequest struct {
	SellerID    string `json:"seller_id"`
	WarehouseID string `json:"warehouse_id" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

func (s *Server) handleCreateRent(c *gin.Context) {
	var req createRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user := currentUser(c)
	rent, err := s.store.AddRent(models.Rent{
		WarehouseID: req.WarehouseID,
		SellerID:    user.UserID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusCreated, rent, "warehouse rented successfully")
}

func (s *Server) handleMyRents(c *gin.Context) {
	user := currentUser(c)
	jsonResponse(c, http.StatusOK, s.store.RentsBySeller(user.UserID), "rents retrieved successfully")
}

func (s *Server) handleMyInventory(c *gin.Context) {
	user := currentUser(c)
	jsonResponse(c, http.StatusOK, s.store.StocksBySeller(user.UserID), "inventory retrieved successfully")
}

type addStockRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	WarehouseID   string `json:"warehouse_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"min=0"`
	MinStockLevel int    `json:"min_stock_level" binding:"min=0"`
	MaxStockLevel int    `json:"max_stock_level" binding:"min=0"`
}

func (s *Server) handleAddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user := currentUser(c)
	record := s.store.AddStock(models.StockRecord{
		ProductID:     req.ProductID,
		WarehouseID:   req.WarehouseID,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
	}, user.UserID)
	jsonResponse(c, http.StatusCreated, record, "stock recorded successfully")
}

type updateStockRequest struct {
	Quantity      int `json:"quantity" binding:"min=0"`
	MinStockLevel int `json:"min_stock_level" binding:"min=0"`
	MaxStockLevel int `json:"max_stock_level" binding:"min=0"`
}

func (s *Server) handleUpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	record, err := s.store.UpdateStock(c.Param("inventory_id"), req.Quantity, req.MinStockLevel, req.MaxStockLevel)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusOK, record, "stock updated successfully")
}

type purchaseRequestBody struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

func (s *Server) handleCreatePurchaseRequest(c *gin.Context) {
	var req purchaseRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user := currentUser(c)
	pr := s.store.AddPurchaseRequest(req.ProductID, req.Quantity, user.UserID)
	jsonResponse(c, http.StatusCreated, pr, "purchase request created")
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var tx models.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}
	if tx.Amount <= 0 {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: non-positive amount"), "invalid request payload")
		return
	}

	created := s.store.AddTransaction(tx)
	jsonResponse(c, http.StatusCreated, created, "transaction recorded successfully")
}

type updateTransactionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed failed"`
}

func (s *Server) handleUpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	tx, err := s.store.UpdateTransaction(c.Param("transaction_id"), req.Status)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusOK, tx, "transaction updated successfully")
}

func (s *Server) handleMyTransactions(c *gin.Context) {
	user := currentUser(c)
	jsonResponse(c, http.StatusOK, s.store.TransactionsByUser(user.UserID), "transactions retrieved successfully")
}

func (s *Server) handleDashboardStats(c *gin.Context) {
	user := currentUser(c)
	jsonResponse(c, http.StatusOK, s.store.StatsFor(user), "stats retrieved successfully")
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.store.GetUser(c.Param("user_id"))
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusOK, user, "user retrieved successfully")
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	requester := currentUser(c)
	if requester.UserID != c.Param("user_id") && requester.Role != models.RoleAdmin {
		jsonError(c, http.StatusForbidden, fmt.Errorf("cannot edit another user"), "forbidden")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request payload: %w", err), "invalid request payload")
		return
	}

	user, err := s.store.UpdateUser(c.Param("user_id"), req.Name, req.Image)
	if err != nil {
		status, message := mapError(err)
		jsonError(c, status, err, message)
		return
	}
	jsonResponse(c, http.StatusOK, user, "user updated successfully")
}
