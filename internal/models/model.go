package models

import "time"

// Roles carried by User.Role. The backend owns role assignment; the client
// only branches on the string.
const (
	RoleAdmin          = "admin"
	RoleSeller         = "seller"
	RoleBuyer          = "buyer"
	RoleWarehouseOwner = "warehouse_owner"
)

// User represents a marketplace account
type User struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Image  string `json:"image,omitempty"`
}

// Product represents a seller-owned listing
type Product struct {
	ProductID string  `json:"product_id"`
	SellerID  string  `json:"seller_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Status    string  `json:"status"`
}

// Auction statuses as reported by the backend. Transitions happen
// server-side only; the client never writes this field.
const (
	AuctionScheduled = "scheduled"
	AuctionOpen      = "open"
	AuctionClosed    = "closed"
)

// Auction represents a time-boxed bid listing accepting offers
type Auction struct {
	BidID       string    `json:"bid_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	SellerID    string    `json:"seller_id"`
	SellerName  string    `json:"seller_name,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	BasePrice   float64   `json:"base_price"`
	HighestBid  *float64  `json:"highest_bid"` // nil until the first offer lands
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// Offer represents a single buyer's proposed price against an auction
type Offer struct {
	OfferID      string    `json:"offer_id"`
	BidID        string    `json:"bid_id"`
	BuyerID      string    `json:"buyer_id"`
	BuyerName    string    `json:"buyer_name,omitempty"`
	OfferedPrice float64   `json:"offered_price"`
	Status       string    `json:"status"` // pending | accepted
	CreatedAt    time.Time `json:"created_at"`
}

// Warehouse represents rentable storage space. Price is the daily rate.
type Warehouse struct {
	WarehouseID string  `json:"warehouse_id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Capacity    int     `json:"capacity"`
	Available   int     `json:"available"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

// Rent represents a lease binding a seller to a warehouse for a date range.
// Dates travel as "2006-01-02" strings, matching the booking form inputs.
type Rent struct {
	RentID      string `json:"rent_id"`
	WarehouseID string `json:"warehouse_id"`
	SellerID    string `json:"seller_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
}

// StockRecord represents a product's stock held in a warehouse
type StockRecord struct {
	InventoryID   string `json:"inventory_id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name,omitempty"`
	WarehouseID   string `json:"warehouse_id"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
}

// PurchaseRequest represents a restock request raised against a low product
type PurchaseRequest struct {
	RequestID string    `json:"request_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction represents a payment record between two role-tagged parties
type Transaction struct {
	TransactionID string    `json:"transaction_id"`
	BidID         *string   `json:"bid_id"`
	FromRole      string    `json:"from_role"`
	FromID        string    `json:"from_id"`
	ToRole        string    `json:"to_role"`
	ToID          string    `json:"to_id"`
	Type          string    `json:"transaction_type"` // payment | sale | refund
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"` // pending | completed | failed
	PaymentMethod string    `json:"payment_method"`
	ReferenceID   string    `json:"reference_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// DashboardStats is the role-specific summary block on the overview page
type DashboardStats struct {
	Role              string  `json:"role"`
	TotalProducts     int     `json:"total_products"`
	ActiveAuctions    int     `json:"active_auctions"`
	PendingOffers     int     `json:"pending_offers"`
	TotalTransactions int     `json:"total_transactions"`
	Revenue           float64 `json:"revenue"`
}
