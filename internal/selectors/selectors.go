// Package selectors holds the pure functions deriving view state from cached
// entities: auction time-window partitions, current prices, rental quotes,
// stock levels and transaction direction. Nothing here touches the network
// or the cache, so every rule is testable in isolation.
package selectors

import (
	"math"
	"time"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
)

// AuctionBuckets partitions a fetched auction list by wall clock.
// Active holds auctions with start <= now < end, Upcoming those with
// start > now. Ended collects auctions past their end time the server still
// reports as open, so they stay visible instead of silently vanishing.
type AuctionBuckets struct {
	Active   []models.Auction
	Upcoming []models.Auction
	Ended    []models.Auction
}

// PartitionAuctions sorts auctions into buckets at the given instant.
func PartitionAuctions(auctions []models.Auction, now time.Time) AuctionBuckets {
	var b AuctionBuckets
	for _, a := range auctions {
		switch {
		case a.StartTime.After(now):
			b.Upcoming = append(b.Upcoming, a)
		case a.EndTime.After(now):
			b.Active = append(b.Active, a)
		default:
			b.Ended = append(b.Ended, a)
		}
	}
	return b
}

// CurrentPrice returns the price a new offer must beat: the highest offer so
// far, or the base price when no offers exist.
func CurrentPrice(a models.Auction) float64 {
	if a.HighestBid != nil {
		return *a.HighestBid
	}
	return a.BasePrice
}

// ServiceFeeRate is the platform cut added on top of the rent subtotal.
const ServiceFeeRate = 0.05

// RentalQuote is the client-side price breakdown shown before payment.
type RentalQuote struct {
	Days       int
	RentCost   float64
	ServiceFee float64
	Total      float64
}

// QuoteRental prices a warehouse rental: duration in whole days (ceiling of
// the difference, minimum 1), cost = days x daily rate, plus the service fee.
func QuoteRental(start, end time.Time, dailyRate float64) RentalQuote {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}

	days := int(math.Ceil(diff.Hours() / 24))
	if days == 0 {
		days = 1
	}

	cost := float64(days) * dailyRate
	fee := cost * ServiceFeeRate
	return RentalQuote{
		Days:       days,
		RentCost:   cost,
		ServiceFee: fee,
		Total:      cost + fee,
	}
}

// IsLowStock reports whether a stock record is at or below its minimum
// threshold.
func IsLowStock(rec models.StockRecord) bool {
	return rec.Quantity <= rec.MinStockLevel
}

// LowStock filters records needing restock.
func LowStock(records []models.StockRecord) []models.StockRecord {
	var low []models.StockRecord
	for _, rec := range records {
		if IsLowStock(rec) {
			low = append(low, rec)
		}
	}
	return low
}

// Transaction directions relative to the signed-in user.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
	DirectionOther    = "other"
)

// Direction classifies a transaction for the given user: incoming when both
// the target id and role match, outgoing when the source matches.
func Direction(tx models.Transaction, user models.User) string {
	switch {
	case tx.ToID == user.UserID && tx.ToRole == user.Role:
		return DirectionIncoming
	case tx.FromID == user.UserID && tx.FromRole == user.Role:
		return DirectionOutgoing
	default:
		return DirectionOther
	}
}
