package fakeapi

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

type userRecord struct {
	user         models.User
	passwordHash []byte
}

type stockEntry struct {
	record   models.StockRecord
	sellerID string
}

type requestEntry struct {
	request  models.PurchaseRequest
	sellerID string
}

// Store is the mock backend's concurrency-safe in-memory state. It enforces
// the server-side rules the client defers to: offer minimums, auction close
// on expiry, warehouse availability and transaction state changes.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*userRecord
	emails     map[string]string // email -> user id
	auctions   map[string]*models.Auction
	offers     map[string]*models.Offer
	warehouses map[string]*models.Warehouse
	rents      map[string]*models.Rent
	stocks     map[string]*stockEntry
	requests   map[string]*requestEntry
	txs        map[string]*models.Transaction
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*userRecord),
		emails:     make(map[string]string),
		auctions:   make(map[string]*models.Auction),
		offers:     make(map[string]*models.Offer),
		warehouses: make(map[string]*models.Warehouse),
		rents:      make(map[string]*models.Rent),
		stocks:     make(map[string]*stockEntry),
		requests:   make(map[string]*requestEntry),
		txs:        make(map[string]*models.Transaction),
	}
}

// CreateUser registers an account with a bcrypt password hash.
func (s *Store) CreateUser(name, email, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[email]; taken {
		return models.User{}, fmt.Errorf("create user %s: %w", email, ErrEmailTaken)
	}

	user := models.User{
		UserID: utils.GenerateID(),
		Name:   name,
		Email:  email,
		Role:   role,
	}
	s.users[user.UserID] = &userRecord{user: user, passwordHash: hash}
	s.emails[email] = user.UserID
	return user, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Store) Authenticate(email, password string) (models.User, error) {
	s.mu.RLock()
	id, ok := s.emails[email]
	var rec *userRecord
	if ok {
		rec = s.users[id]
	}
	s.mu.RUnlock()

	if rec == nil {
		return models.User{}, ErrBadCredential
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return models.User{}, ErrBadCredential
	}
	return rec.user, nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(userID string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return rec.user, nil
}

// UpdateUser edits a user's name and image.
func (s *Store) UpdateUser(userID, name, image string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if name != "" {
		rec.user.Name = name
	}
	if image != "" {
		rec.user.Image = image
	}
	return rec.user, nil
}

// AddAuction stores a new auction listing.
func (s *Store) AddAuction(a models.Auction) models.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.BidID = utils.GenerateID()
	if a.Status == "" {
		if a.StartTime.After(time.Now()) {
			a.Status = models.AuctionScheduled
		} else {
			a.Status = models.AuctionOpen
		}
	}
	s.auctions[a.BidID] = &a
	return a
}

// closeIfExpiredLocked transitions an open auction past its end time.
// Callers hold the write lock.
func closeIfExpiredLocked(a *models.Auction, now time.Time) {
	if a.Status == models.AuctionOpen && !a.EndTime.After(now) {
		a.Status = models.AuctionClosed
	}
	if a.Status == models.AuctionScheduled && !a.StartTime.After(now) {
		a.Status = models.AuctionOpen
	}
}

// Auctions returns every auction, transitioning expired ones on the way out.
func (s *Store) Auctions() []models.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	out := make([]models.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		closeIfExpiredLocked(a, now)
		out = append(out, *a)
	}
	return out
}

// AuctionsBySeller returns one seller's auctions.
func (s *Store) AuctionsBySeller(sellerID string) []models.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	out := make([]models.Auction, 0)
	for _, a := range s.auctions {
		if a.SellerID != sellerID {
			continue
		}
		closeIfExpiredLocked(a, now)
		out = append(out, *a)
	}
	return out
}

// GetAuction returns one auction by id.
func (s *Store) GetAuction(bidID string) (models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[bidID]
	if !ok {
		return models.Auction{}, fmt.Errorf("auction %s: %w", bidID, ErrNotFound)
	}
	closeIfExpiredLocked(a, time.Now())
	return *a, nil
}

// AddOffer validates and records an offer, raising the auction's highest
// bid. The amount must beat the current highest offer, or the base price
// when none exist.
func (s *Store) AddOffer(bidID, buyerID, buyerName string, amount float64) (models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.auctions[bidID]
	if !ok {
		return models.Offer{}, fmt.Errorf("offer on auction %s: %w", bidID, ErrNotFound)
	}
	closeIfExpiredLocked(a, time.Now())
	if a.Status != models.AuctionOpen {
		return models.Offer{}, fmt.Errorf("offer on auction %s: %w", bidID, ErrAuctionClosed)
	}

	current := a.BasePrice
	if a.HighestBid != nil {
		current = *a.HighestBid
	}
	if amount <= current {
		return models.Offer{}, fmt.Errorf("offer on auction %s: current price is %.2f: %w", bidID, current, ErrOfferTooLow)
	}

	offer := models.Offer{
		OfferID:      utils.GenerateID(),
		BidID:        bidID,
		BuyerID:      buyerID,
		BuyerName:    buyerName,
		OfferedPrice: amount,
		Status:       "pending",
		CreatedAt:    time.Now().UTC(),
	}
	s.offers[offer.OfferID] = &offer
	a.HighestBid = &amount
	return offer, nil
}

// OffersByBid returns all offers against one auction.
func (s *Store) OffersByBid(bidID string) []models.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Offer, 0)
	for _, o := range s.offers {
		if o.BidID == bidID {
			out = append(out, *o)
		}
	}
	return out
}

// AcceptOffer marks an offer accepted, closes its auction and records the
// pending sale transaction from buyer to seller.
func (s *Store) AcceptOffer(offerID, sellerID string) (models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.offers[offerID]
	if !ok {
		return models.Offer{}, fmt.Errorf("offer %s: %w", offerID, ErrNotFound)
	}
	if o.Status != "pending" {
		return models.Offer{}, fmt.Errorf("offer %s: %w", offerID, ErrOfferSettled)
	}

	a, ok := s.auctions[o.BidID]
	if !ok {
		return models.Offer{}, fmt.Errorf("auction %s: %w", o.BidID, ErrNotFound)
	}
	if a.SellerID != sellerID {
		return models.Offer{}, fmt.Errorf("offer %s: %w", offerID, ErrNotSeller)
	}

	o.Status = "accepted"
	a.Status = models.AuctionClosed

	bidID := o.BidID
	tx := models.Transaction{
		TransactionID: utils.GenerateID(),
		BidID:         &bidID,
		FromRole:      models.RoleBuyer,
		FromID:        o.BuyerID,
		ToRole:        models.RoleSeller,
		ToID:          a.SellerID,
		Type:          "sale",
		Amount:        o.OfferedPrice,
		Status:        "pending",
		PaymentMethod: "credit_card",
		ReferenceID:   utils.SaleReference(bidID),
		CreatedAt:     time.Now().UTC(),
	}
	s.txs[tx.TransactionID] = &tx

	return *o, nil
}

// AddWarehouse stores a new warehouse with full availability.
func (s *Store) AddWarehouse(w models.Warehouse) models.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.WarehouseID = utils.GenerateID()
	if w.Available == 0 {
		w.Available = w.Capacity
	}
	if w.Status == "" {
		w.Status = "available"
	}
	s.warehouses[w.WarehouseID] = &w
	return w
}

// Warehouses returns every warehouse.
func (s *Store) Warehouses() []models.Warehouse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		out = append(out, *w)
	}
	return out
}

// WarehousesByOwner returns one owner's warehouses.
func (s *Store) WarehousesByOwner(ownerID string) []models.Warehouse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Warehouse, 0)
	for _, w := range s.warehouses {
		if w.OwnerID == ownerID {
			out = append(out, *w)
		}
	}
	return out
}

// AddRent books a warehouse, reducing its availability by one slot.
func (s *Store) AddRent(r models.Rent) (models.Rent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.warehouses[r.WarehouseID]
	if !ok {
		return models.Rent{}, fmt.Errorf("rent warehouse %s: %w", r.WarehouseID, ErrNotFound)
	}
	if w.Available <= 0 {
		return models.Rent{}, fmt.Errorf("rent warehouse %s: %w", r.WarehouseID, ErrFullyBooked)
	}

	w.Available--
	if w.Available == 0 {
		w.Status = "booked"
	}

	r.RentID = utils.GenerateID()
	r.Status = "active"
	s.rents[r.RentID] = &r
	return r, nil
}

// RentsBySeller returns one seller's rentals.
func (s *Store) RentsBySeller(sellerID string) []models.Rent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Rent, 0)
	for _, r := range s.rents {
		if r.SellerID == sellerID {
			out = append(out, *r)
		}
	}
	return out
}

// AddStock records product stock for a seller.
func (s *Store) AddStock(rec models.StockRecord, sellerID string) models.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.InventoryID = utils.GenerateID()
	s.stocks[rec.InventoryID] = &stockEntry{record: rec, sellerID: sellerID}
	return rec
}

// UpdateStock adjusts an existing stock record.
func (s *Store) UpdateStock(inventoryID string, quantity, minLevel, maxLevel int) (models.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.stocks[inventoryID]
	if !ok {
		return models.StockRecord{}, fmt.Errorf("stock %s: %w", inventoryID, ErrNotFound)
	}
	entry.record.Quantity = quantity
	entry.record.MinStockLevel = minLevel
	entry.record.MaxStockLevel = maxLevel
	return entry.record, nil
}

// StocksBySeller returns one seller's stock records.
func (s *Store) StocksBySeller(sellerID string) []models.StockRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StockRecord, 0)
	for _, entry := range s.stocks {
		if entry.sellerID == sellerID {
			out = append(out, entry.record)
		}
	}
	return out
}

// AddPurchaseRequest records an explicit restock request.
func (s *Store) AddPurchaseRequest(productID string, quantity int, sellerID string) models.PurchaseRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr := models.PurchaseRequest{
		RequestID: utils.GenerateID(),
		ProductID: productID,
		Quantity:  quantity,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}
	s.requests[pr.RequestID] = &requestEntry{request: pr, sellerID: sellerID}
	return pr
}

// AddTransaction stores a payment record.
func (s *Store) AddTransaction(tx models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.TransactionID = utils.GenerateID()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.txs[tx.TransactionID] = &tx
	return tx
}

// UpdateTransaction changes a transaction's status.
func (s *Store) UpdateTransaction(transactionID, status string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[transactionID]
	if !ok {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	if status != "" {
		tx.Status = status
	}
	return *tx, nil
}

// TransactionsByUser returns every transaction touching a user, either side.
func (s *Store) TransactionsByUser(userID string) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0)
	for _, tx := range s.txs {
		if tx.FromID == userID || tx.ToID == userID {
			out = append(out, *tx)
		}
	}
	return out
}

// StatsFor builds the role-specific overview block.
func (s *Store) StatsFor(user models.User) models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.DashboardStats{Role: user.Role}
	now := time.Now()
	for _, a := range s.auctions {
		if user.Role == models.RoleSeller && a.SellerID != user.UserID {
			continue
		}
		if a.Status == models.AuctionOpen && a.EndTime.After(now) {
			stats.ActiveAuctions++
		}
	}
	for _, o := range s.offers {
		if o.Status == "pending" {
			stats.PendingOffers++
		}
	}
	for _, tx := range s.txs {
		if tx.FromID != user.UserID && tx.ToID != user.UserID {
			continue
		}
		stats.TotalTransactions++
		if tx.ToID == user.UserID && tx.Status == "completed" {
			stats.Revenue += tx.Amount
		}
	}
	for _, entry := range s.stocks {
		if entry.sellerID == user.UserID {
			stats.TotalProducts++
		}
	}
	return stats
}
