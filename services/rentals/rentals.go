// Package rentals implements the warehouse pages: browsing, listing your own
// warehouses and the two-step rent-with-payment flow.
package rentals

import (
	"context"
	"fmt"
	"time"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/selectors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
	"github.com/ishtiakalhumaidi/bidstock-client/services/transactions"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// DateLayout is the wire format for rental dates.
const DateLayout = "2006-01-02"

// Query keys for warehouse and rent data.
var (
	KeyAllWarehouses = querycache.NewKey("all-warehouses")
	KeyMyWarehouses  = querycache.NewKey("my-warehouses")
	KeyMyRents       = querycache.NewKey("my-rents")
)

// RentResult reports a completed rental: the payment transaction, the rent
// record and the quote that priced them.
type RentResult struct {
	Transaction models.Transaction
	Rent        models.Rent
	Quote       selectors.RentalQuote
}

// CompensationError reports the partial-failure path: payment succeeded but
// rent creation failed, so the client voided the transaction. VoidErr is
// non-nil when even the void failed, leaving the records inconsistent
// server-side.
type CompensationError struct {
	TransactionID string
	RentErr       error
	VoidErr       error
}

func (e *CompensationError) Error() string {
	if e.VoidErr != nil {
		return fmt.Sprintf("rental failed after payment %s and the payment could not be voided: %v (void: %v)",
			e.TransactionID, e.RentErr, e.VoidErr)
	}
	return fmt.Sprintf("rental failed after payment %s; payment voided: %v", e.TransactionID, e.RentErr)
}

func (e *CompensationError) Unwrap() error {
	return e.RentErr
}

// Service exposes warehouse and rental operations.
type Service struct {
	api      apiclient.API
	cache    *querycache.Cache
	dispatch *dispatcher.Dispatcher
	session  *session.Store
}

// NewService wires a rentals service over the shared client stack.
func NewService(api apiclient.API, cache *querycache.Cache, d *dispatcher.Dispatcher, sess *session.Store) *Service {
	return &Service{api: api, cache: cache, dispatch: d, session: sess}
}

// List returns every warehouse, served from cache until invalidated.
func (s *Service) List(ctx context.Context) ([]models.Warehouse, error) {
	return querycache.Fetch(ctx, s.cache, KeyAllWarehouses, func(ctx context.Context) ([]models.Warehouse, error) {
		var warehouses []models.Warehouse
		if err := s.api.Get(ctx, "/warehouses", &warehouses); err != nil {
			return nil, fmt.Errorf("rentals: list warehouses: %w", err)
		}
		return warehouses, nil
	})
}

// Get returns one warehouse from the cached list.
func (s *Service) Get(ctx context.Context, warehouseID string) (models.Warehouse, error) {
	warehouses, err := s.List(ctx)
	if err != nil {
		return models.Warehouse{}, err
	}
	for _, w := range warehouses {
		if w.WarehouseID == warehouseID {
			return w, nil
		}
	}
	return models.Warehouse{}, fmt.Errorf("rentals: warehouse %s: %w", warehouseID, clienterrors.ErrNotFound)
}

// MyWarehouses returns the signed-in owner's warehouses.
func (s *Service) MyWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return nil, fmt.Errorf("rentals: my warehouses: %w", err)
	}
	return querycache.Fetch(ctx, s.cache, KeyMyWarehouses, func(ctx context.Context) ([]models.Warehouse, error) {
		var warehouses []models.Warehouse
		if err := s.api.Get(ctx, "/warehouses/my-warehouse", &warehouses); err != nil {
			return nil, fmt.Errorf("rentals: my warehouses: %w", err)
		}
		return warehouses, nil
	})
}

// MyRents returns the signed-in seller's rentals.
func (s *Service) MyRents(ctx context.Context) ([]models.Rent, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return nil, fmt.Errorf("rentals: my rents: %w", err)
	}
	return querycache.Fetch(ctx, s.cache, KeyMyRents, func(ctx context.Context) ([]models.Rent, error) {
		var rents []models.Rent
		if err := s.api.Get(ctx, "/rents/my-rents", &rents); err != nil {
			return nil, fmt.Errorf("rentals: my rents: %w", err)
		}
		return rents, nil
	})
}

type createWarehouseRequest struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Capacity int     `json:"capacity"`
	Price    float64 `json:"price"`
}

// CreateWarehouse registers a new warehouse for the signed-in owner.
func (s *Service) CreateWarehouse(ctx context.Context, name, location string, capacity int, price float64) (models.Warehouse, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.Warehouse{}, fmt.Errorf("rentals: create warehouse: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.Warehouse]{
		Name: "rentals.create_warehouse",
		Validate: func() error {
			verr := clienterrors.NewValidationError()
			if name == "" {
				verr.Add("name", "name is required")
			}
			if location == "" {
				verr.Add("location", "location is required")
			}
			if capacity <= 0 {
				verr.Add("capacity", "capacity must be positive")
			}
			if price <= 0 {
				verr.Add("price", "daily rate must be positive")
			}
			if verr.HasErrors() {
				return verr
			}
			return nil
		},
		Run: func(ctx context.Context) (models.Warehouse, error) {
			var warehouse models.Warehouse
			req := createWarehouseRequest{Name: name, Location: location, Capacity: capacity, Price: price}
			if err := s.api.Post(ctx, "/warehouses", req, &warehouse); err != nil {
				return models.Warehouse{}, err
			}
			return warehouse, nil
		},
		Invalidates: []querycache.Key{KeyAllWarehouses, KeyMyWarehouses},
	})
}

// Quote prices a rental of the given warehouse over a date range without
// committing anything.
func (s *Service) Quote(ctx context.Context, warehouseID, startDate, endDate string) (selectors.RentalQuote, error) {
	start, end, err := parseDates(startDate, endDate)
	if err != nil {
		return selectors.RentalQuote{}, fmt.Errorf("rentals: quote: %w", err)
	}

	warehouse, err := s.Get(ctx, warehouseID)
	if err != nil {
		return selectors.RentalQuote{}, err
	}
	return selectors.QuoteRental(start, end, warehouse.Price), nil
}

type createRentRequest struct {
	SellerID    string `json:"seller_id"`
	WarehouseID string `json:"warehouse_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type voidTransactionRequest struct {
	Status string `json:"status"`
}

// Rent books a warehouse for a date range: it recomputes the quote, creates
// the payment transaction, then creates the rent record. If rent creation
// fails after the payment succeeded, the payment is voided and a
// CompensationError is returned instead of leaving a paid transaction with
// no rental behind it.
func (s *Service) Rent(ctx context.Context, warehouseID, startDate, endDate string) (RentResult, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return RentResult{}, fmt.Errorf("rentals: rent: %w", err)
	}

	start, end, perr := parseDates(startDate, endDate)
	warehouse, werr := s.Get(ctx, warehouseID)

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[RentResult]{
		Name: "rentals.rent",
		Validate: func() error {
			if perr != nil {
				return perr
			}
			if werr != nil {
				return werr
			}
			if warehouse.Status == "booked" || warehouse.Available <= 0 {
				return fmt.Errorf("%w: warehouse is fully booked", clienterrors.ErrValidation)
			}
			if user.UserID == warehouse.OwnerID {
				return fmt.Errorf("%w: cannot rent your own warehouse", clienterrors.ErrValidation)
			}
			return nil
		},
		Run: func(ctx context.Context) (RentResult, error) {
			quote := selectors.QuoteRental(start, end, warehouse.Price)

			payment := models.Transaction{
				FromRole:      user.Role,
				FromID:        user.UserID,
				ToRole:        models.RoleWarehouseOwner,
				ToID:          warehouse.OwnerID,
				Type:          "payment",
				Amount:        quote.Total,
				Status:        "completed",
				PaymentMethod: "credit_card",
				ReferenceID:   utils.RentReference(warehouse.WarehouseID),
			}

			var tx models.Transaction
			if err := s.api.Post(ctx, "/transactions", payment, &tx); err != nil {
				return RentResult{}, fmt.Errorf("create payment: %w", err)
			}

			var rent models.Rent
			rentReq := createRentRequest{
				SellerID:    user.UserID,
				WarehouseID: warehouse.WarehouseID,
				StartDate:   startDate,
				EndDate:     endDate,
			}
			if err := s.api.Post(ctx, "/rents", rentReq, &rent); err != nil {
				return RentResult{}, s.voidPayment(ctx, tx.TransactionID, err)
			}

			return RentResult{Transaction: tx, Rent: rent, Quote: quote}, nil
		},
		Invalidates: []querycache.Key{KeyAllWarehouses, KeyMyRents, transactions.KeyMyTransactions},
	})
}

// voidPayment marks the orphaned payment failed after rent creation broke.
func (s *Service) voidPayment(ctx context.Context, transactionID string, rentErr error) error {
	compErr := &CompensationError{TransactionID: transactionID, RentErr: rentErr}

	if err := s.api.Put(ctx, "/transactions/"+transactionID, voidTransactionRequest{Status: "failed"}, nil); err != nil {
		compErr.VoidErr = err
		utils.Error("payment void failed, records are inconsistent", map[string]any{
			"transaction_id": transactionID,
			"rent_error":     rentErr.Error(),
			"void_error":     err.Error(),
		})
		return compErr
	}

	utils.Warn("rent creation failed, payment voided", map[string]any{
		"transaction_id": transactionID,
		"rent_error":     rentErr.Error(),
	})
	return compErr
}

func parseDates(startDate, endDate string) (time.Time, time.Time, error) {
	verr := clienterrors.NewValidationError()

	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		verr.Add("start_date", "start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		verr.Add("end_date", "end date must be YYYY-MM-DD")
	}
	if !verr.HasErrors() && end.Before(start) {
		verr.Add("end_date", "end date is before start date")
	}
	if verr.HasErrors() {
		return time.Time{}, time.Time{}, verr
	}
	return start, end, nil
}
