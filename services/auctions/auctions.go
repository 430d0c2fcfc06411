// Package auctions implements the client side of the auction pages: cached
// listing reads, auction creation, offer placement and acceptance.
package auctions

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
)

// Query keys for auction data.
var (
	KeyActiveBids = querycache.NewKey("active-bids")
	KeyMyBids     = querycache.NewKey("my-bids")
)

func keyBid(bidID string) querycache.Key {
	return querycache.NewKey("bid", bidID)
}

func keyOffers(bidID string) querycache.Key {
	return querycache.NewKey("offers", bidID)
}

// Service exposes auction operations to the UI layer.
type Service struct {
	api      apiclient.API
	cache    *querycache.Cache
	dispatch *dispatcher.Dispatcher
	session  *session.Store
}

// NewService wires an auction service over the shared client stack.
func NewService(api apiclient.API, cache *querycache.Cache, d *dispatcher.Dispatcher, sess *session.Store) *Service {
	return &Service{api: api, cache: cache, dispatch: d, session: sess}
}

// List returns every auction, served from cache until invalidated.
func (s *Service) List(ctx context.Context) ([]models.Auction, error) {
	return querycache.Fetch(ctx, s.cache, KeyActiveBids, func(ctx context.Context) ([]models.Auction, error) {
		var auctions []models.Auction
		if err := s.api.Get(ctx, "/bids", &auctions); err != nil {
			return nil, fmt.Errorf("auctions: list: %w", err)
		}
		return auctions, nil
	})
}

// Partition returns the auction list split into active, upcoming and ended
// buckets at the current wall clock.
func (s *Service) Partition(ctx context.Context) (selectors.AuctionBuckets, error) {
	auctions, err := s.List(ctx)
	if err != nil {
		return selectors.AuctionBuckets{}, err
	}
	return selectors.PartitionAuctions(auctions, time.Now()), nil
}

// Get returns one auction by id, served from cache until invalidated.
func (s *Service) Get(ctx context.Context, bidID string) (models.Auction, error) {
	if bidID == "" {
		return models.Auction{}, fmt.Errorf("auctions: %w: empty bid id", clienterrors.ErrValidation)
	}
	return querycache.Fetch(ctx, s.cache, keyBid(bidID), func(ctx context.Context) (models.Auction, error) {
		var auction models.Auction
		if err := s.api.Get(ctx, "/bids/"+bidID, &auction); err != nil {
			return models.Auction{}, fmt.Errorf("auctions: get %s: %w", bidID, err)
		}
		return auction, nil
	})
}

// MyAuctions returns the signed-in seller's auctions.
func (s *Service) MyAuctions(ctx context.Context) ([]models.Auction, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return nil, fmt.Errorf("auctions: my auctions: %w", err)
	}
	return querycache.Fetch(ctx, s.cache, KeyMyBids, func(ctx context.Context) ([]models.Auction, error) {
		var auctions []models.Auction
		if err := s.api.Get(ctx, "/bids/my-bids", &auctions); err != nil {
			return nil, fmt.Errorf("auctions: my auctions: %w", err)
		}
		return auctions, nil
	})
}

// Offers returns all offers placed against an auction.
func (s *Service) Offers(ctx context.Context, bidID string) ([]models.Offer, error) {
	if bidID == "" {
		return nil, fmt.Errorf("auctions: %w: empty bid id", clienterrors.ErrValidation)
	}
	return querycache.Fetch(ctx, s.cache, keyOffers(bidID), func(ctx context.Context) ([]models.Offer, error) {
		var offers []models.Offer
		if err := s.api.Get(ctx, "/offers/bid/"+bidID, &offers); err != nil {
			return nil, fmt.Errorf("auctions: offers for %s: %w", bidID, err)
		}
		return offers, nil
	})
}

type placeOfferRequest struct {
	BidID        string  `json:"bid_id"`
	OfferedPrice float64 `json:"offered_price"`
}

// PlaceOffer validates and submits an offer against an auction. The amount
// must strictly beat the current highest offer (or the base price when none
// exist); a failed check issues no request. On success the auction list,
// detail and offer keys are invalidated so the next read sees server truth.
func (s *Service) PlaceOffer(ctx context.Context, bidID string, amount float64) (models.Offer, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return models.Offer{}, fmt.Errorf("auctions: place offer: %w", err)
	}

	auction, err := s.Get(ctx, bidID)
	if err != nil {
		return models.Offer{}, err
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.Offer]{
		Name: "auctions.place_offer",
		Validate: func() error {
			if user.UserID == auction.SellerID {
				return fmt.Errorf("%w: cannot bid on your own auction", clienterrors.ErrValidation)
			}
			if amount <= 0 {
				return fmt.Errorf("%w: non-positive offer amount", clienterrors.ErrValidation)
			}
			if current := selectors.CurrentPrice(auction); amount <= current {
				return fmt.Errorf("%w: current price is %.2f", clienterrors.ErrOfferTooLow, current)
			}
			return nil
		},
		Run: func(ctx context.Context) (models.Offer, error) {
			var offer models.Offer
			req := placeOfferRequest{BidID: bidID, OfferedPrice: amount}
			if err := s.api.Post(ctx, "/offers", req, &offer); err != nil {
				return models.Offer{}, err
			}
			return offer, nil
		},
		Invalidates: []querycache.Key{KeyActiveBids, keyBid(bidID), keyOffers(bidID)},
	})
}

type createAuctionRequest struct {
	ProductID string    `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	BasePrice float64   `json:"base_price"`
}

// CreateAuction lists a product for bidding over a time window.
func (s *Service) CreateAuction(ctx context.Context, productID string, basePrice float64, start, end time.Time) (models.Auction, error) {
	user, err := s.session.RequireUser()
	if err != nil {
		return models.Auction{}, fmt.Errorf("auctions: create: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.Auction]{
		Name: "auctions.create",
		Validate: func() error {
			verr := clienterrors.NewValidationError()
			if productID == "" {
				verr.Add("product_id", "product is required")
			}
			if basePrice <= 0 {
				verr.Add("base_price", "base price must be positive")
			}
			if !end.After(start) {
				verr.Add("end_time", "end time must be after start time")
			}
			if end.Before(time.Now()) {
				verr.Add("end_time", "end time is in the past")
			}
			if verr.HasErrors() {
				return verr
			}
			return nil
		},
		Run: func(ctx context.Context) (models.Auction, error) {
			var auction models.Auction
			req := createAuctionRequest{
				ProductID: productID,
				SellerID:  user.UserID,
				StartTime: start,
				EndTime:   end,
				BasePrice: basePrice,
			}
			if err := s.api.Post(ctx, "/bids", req, &auction); err != nil {
				return models.Auction{}, err
			}
			return auction, nil
		},
		Invalidates: []querycache.Key{KeyActiveBids, KeyMyBids},
	})
}

// AcceptOffer accepts a buyer's offer on the seller's auction. The server
// closes the auction and records the sale transaction; the client only
// invalidates everything the acceptance made stale.
func (s *Service) AcceptOffer(ctx context.Context, offerID, bidID string) (models.Offer, error) {
	if _, err := s.session.RequireUser(); err != nil {
		return models.Offer{}, fmt.Errorf("auctions: accept offer: %w", err)
	}

	return dispatcher.Dispatch(ctx, s.dispatch, dispatcher.Mutation[models.Offer]{
		Name: "auctions.accept_offer",
		Validate: func() error {
			if offerID == "" || bidID == "" {
				return fmt.Errorf("%w: missing offer or bid id", clienterrors.ErrValidation)
			}
			return nil
		},
		Run: func(ctx context.Context) (models.Offer, error) {
			var offer models.Offer
			if err := s.api.Post(ctx, "/offers/"+offerID+"/accept", nil, &offer); err != nil {
				return models.Offer{}, err
			}
			return offer, nil
		},
		Invalidates: []querycache.Key{
			KeyActiveBids,
			KeyMyBids,
			keyBid(bidID),
			keyOffers(bidID),
			transactions.KeyMyTransactions,
		},
	})
}
