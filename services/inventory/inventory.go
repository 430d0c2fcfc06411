// Package inventory implements the seller's stock pages: the inventory list,
// stock creation and updates, the low-stock report and explicit purchase
// requests. Nothing here fires a purchase request automatically; a low-stock
// record is derived state, not a trigger.
package inventory

import (
	"context"
	"fmt"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/selectors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
)

// Query keys for inventory data.
var (
	KeyMyInventory      = querycache.NewKey("my-inventory")
	KeyPurchaseRequests = querycache.NewKey("purchase-requests")
)

// Service exposes inventory operations.
type Service struct {
	api      apiclient.API
	cache    *querycache.Cache
	dispatch *dispatcher.Dispatcher
	session  *session.Store
}

// NewService wires an inventory service over the shared client stack.
func NewService(api apiclient.API, cache *querycache.Cache, d *dispatcher.Dispatcher, sess *session.Store) *Service {
	return &Service{api: api, cache: cache, dispatch: d, session: sess}
}

// Mine returns the signed-in seller's stock records.
func (s *Service) Mine(ctx context.Context) ([]models.StockRecord, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return nil, fmt.Errorf("inventory: mine: %w", err)
	}
	return querycache.Fetch(ctx, s.cache, KeyMyInventory, func(ctx context.Context) ([]models.StockRecord, error) {
		var records []models.StockRecord
		if err := s.api.Get(ctx, "/inventories/my-inventory", &records); err != nil {
			return nil, fmt.Errorf("inventory: mine: %w", err)
		}
		return records, nil
	})
}

// LowStock returns the seller's records at or below their minimum threshold.
func (s *Service) LowStock(ctx context.Context) ([]models.StockRecord, error) {
	records, err := s.Mine(ctx)
	if err != nil {
		return nil, err
	}
	return selectors.LowStock(records), nil
}

type addStockRequest struct {
	ProductID     string `json:"product_id"`
	WarehouseID   string `json:"warehouse_id"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
}

func validateLevels(quantity, minLevel, maxLevel int) error {
	verr := clienterrors.NewValidationError()
	if quantity < 0 {
		verr.Add("quantity", "quantity cannot be negative")
	}
	if minLevel < 0 {
		verr.Add("min_stock_level", "minimum cannot be negative")
	}
	if maxLevel < minLevel {
		verr.Add("max_stock_level", "maximum is below minimum")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// AddStock records product stock in a warehouse.
func (s *Service) AddStock(ctx context.Context, productID, warehouseID string, quantity, minLevel, maxLevel int) (models.StockRecord, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.StockRecord{}, fmt.Errorf("inventory: add stock: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.StockRecord]{
		Name: "inventory.add_stock",
		Validate: func() error {
			verr := clienterrors.NewValidationError()
			if productID == "" {
				verr.Add("product_id", "product is required")
			}
			if warehouseID == "" {
				verr.Add("warehouse_id", "warehouse is required")
			}
			if verr.HasErrors() {
				return verr
			}
			return validateLevels(quantity, minLevel, maxLevel)
		},
		Run: func(ctx context.Context) (models.StockRecord, error) {
			var record models.StockRecord
			req := addStockRequest{
				ProductID:     productID,
				WarehouseID:   warehouseID,
				Quantity:      quantity,
				MinStockLevel: minLevel,
				MaxStockLevel: maxLevel,
			}
			if err := s.api.Post(ctx, "/inventories", req, &record); err != nil {
				return models.StockRecord{}, err
			}
			return record, nil
		},
		Invalidates: []querycache.Key{KeyMyInventory},
	})
}

type updateStockRequest struct {
	Quantity      int `json:"quantity"`
	MinStockLevel int `json:"min_stock_level"`
	MaxStockLevel int `json:"max_stock_level"`
}

// UpdateStock adjusts an existing stock record's quantity and thresholds.
func (s *Service) UpdateStock(ctx context.Context, inventoryID string, quantity, minLevel, maxLevel int) (models.StockRecord, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.StockRecord{}, fmt.Errorf("inventory: update stock: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.StockRecord]{
		Name: "inventory.update_stock",
		Validate: func() error {
			if inventoryID == "" {
				return fmt.Errorf("%w: empty inventory id", clienterrors.ErrValidation)
			}
			return validateLevels(quantity, minLevel, maxLevel)
		},
		Run: func(ctx context.Context) (models.StockRecord, error) {
			var record models.StockRecord
			req := updateStockRequest{Quantity: quantity, MinStockLevel: minLevel, MaxStockLevel: maxLevel}
			if err := s.api.Put(ctx, "/inventories/"+inventoryID, req, &record); err != nil {
				return models.StockRecord{}, err
			}
			return record, nil
		},
		Invalidates: []querycache.Key{KeyMyInventory},
	})
}

type purchaseRequestBody struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreatePurchaseRequest raises a restock request for a product. Always an
// explicit action; low stock alone never issues one.
func (s *Service) CreatePurchaseRequest(ctx context.Context, productID string, quantity int) (models.PurchaseRequest, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.PurchaseRequest{}, fmt.Errorf("inventory: purchase request: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.PurchaseRequest]{
		Name: "inventory.create_purchase_request",
		Validate: func() error {
			verr := clienterrors.NewValidationError()
			if productID == "" {
				verr.Add("product_id", "product is required")
			}
			if quantity <= 0 {
				verr.Add("quantity", "quantity must be positive")
			}
			if verr.HasErrors() {
				return verr
			}
			return nil
		},
		Run: func(ctx context.Context) (models.PurchaseRequest, error) {
			var pr models.PurchaseRequest
			if err := s.api.Post(ctx, "/purchase-requests", purchaseRequestBody{ProductID: productID, Quantity: quantity}, &pr); err != nil {
				return models.PurchaseRequest{}, err
			}
			return pr, nil
		},
		Invalidates: []querycache.Key{KeyPurchaseRequests},
	})
}
