package selectors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
)

func auctionAt(id string, start, end time.Time) models.Auction {
	return models.Auction{BidID: id, StartTime: start, EndTime: end, Status: models.AuctionOpen}
}

// Tests PartitionAuctions
func TestPartitionAuctions(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	active := auctionAt("active", now.Add(-time.Hour), now.Add(time.Hour))
	startsNow := auctionAt("starts-now", now, now.Add(time.Hour))
	upcoming := auctionAt("upcoming", now.Add(time.Hour), now.Add(2*time.Hour))
	expired := auctionAt("expired", now.Add(-3*time.Hour), now.Add(-time.Hour))
	endsNow := auctionAt("ends-now", now.Add(-time.Hour), now)

	buckets := PartitionAuctions([]models.Auction{active, startsNow, upcoming, expired, endsNow}, now)

	require.Equal(t, []models.Auction{active, startsNow}, buckets.Active)
	require.Equal(t, []models.Auction{upcoming}, buckets.Upcoming)
	require.Equal(t, []models.Auction{expired, endsNow}, buckets.Ended)
}

// Every auction lands in exactly one bucket, so nothing can silently vanish
// from all views.
func TestPartitionAuctions_Exhaustive(t *testing.T) {
	t.Parallel()

	now := time.Now()
	auctions := []models.Auction{
		auctionAt("a", now.Add(-time.Minute), now.Add(time.Minute)),
		auctionAt("b", now.Add(time.Minute), now.Add(2*time.Minute)),
		auctionAt("c", now.Add(-2*time.Minute), now.Add(-time.Minute)),
	}

	buckets := PartitionAuctions(auctions, now)
	total := len(buckets.Active) + len(buckets.Upcoming) + len(buckets.Ended)
	require.Equal(t, len(auctions), total)
}

// Tests CurrentPrice
func TestCurrentPrice(t *testing.T) {
	t.Parallel()

	highest := 150.0
	tests := []struct {
		name    string
		auction models.Auction
		want    float64
	}{
		{
			name:    "no_offers_uses_base_price",
			auction: models.Auction{BasePrice: 100},
			want:    100,
		},
		{
			name:    "highest_offer_wins",
			auction: models.Auction{BasePrice: 100, HighestBid: &highest},
			want:    150,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, CurrentPrice(tc.auction))
		})
	}
}

// Tests QuoteRental
func TestQuoteRental(t *testing.T) {
	t.Parallel()

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name     string
		start    string
		end      string
		rate     float64
		wantDays int
		wantCost float64
		wantFee  float64
		wantTot  float64
	}{
		{
			name:  "thirty_days_at_ten",
			start: "2025-01-01", end: "2025-01-31", rate: 10,
			wantDays: 30, wantCost: 300, wantFee: 15, wantTot: 315,
		},
		{
			name:  "same_day_minimum_one",
			start: "2025-03-10", end: "2025-03-10", rate: 50,
			wantDays: 1, wantCost: 50, wantFee: 2.5, wantTot: 52.5,
		},
		{
			name:  "single_night",
			start: "2025-03-10", end: "2025-03-11", rate: 120,
			wantDays: 1, wantCost: 120, wantFee: 6, wantTot: 126,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			quote := QuoteRental(day(tc.start), day(tc.end), tc.rate)
			require.Equal(t, tc.wantDays, quote.Days)
			require.InDelta(t, tc.wantCost, quote.RentCost, 1e-9)
			require.InDelta(t, tc.wantFee, quote.ServiceFee, 1e-9)
			require.InDelta(t, tc.wantTot, quote.Total, 1e-9)
		})
	}
}

// Tests IsLowStock / LowStock
func TestLowStock(t *testing.T) {
	t.Parallel()

	records := []models.StockRecord{
		{InventoryID: "below", Quantity: 10, MinStockLevel: 50},
		{InventoryID: "at-threshold", Quantity: 50, MinStockLevel: 50},
		{InventoryID: "healthy", Quantity: 120, MinStockLevel: 50},
	}

	low := LowStock(records)
	require.Len(t, low, 2)
	require.Equal(t, "below", low[0].InventoryID)
	require.Equal(t, "at-threshold", low[1].InventoryID)
	require.False(t, IsLowStock(records[2]))
}

// Tests Direction
func TestDirection(t *testing.T) {
	t.Parallel()

	user := models.User{UserID: "u1", Role: models.RoleSeller}

	tests := []struct {
		name string
		tx   models.Transaction
		want string
	}{
		{
			name: "incoming_needs_id_and_role",
			tx:   models.Transaction{ToID: "u1", ToRole: models.RoleSeller},
			want: DirectionIncoming,
		},
		{
			name: "matching_id_wrong_role_is_not_incoming",
			tx:   models.Transaction{ToID: "u1", ToRole: models.RoleBuyer},
			want: DirectionOther,
		},
		{
			name: "outgoing",
			tx:   models.Transaction{FromID: "u1", FromRole: models.RoleSeller, ToID: "u2", ToRole: models.RoleWarehouseOwner},
			want: DirectionOutgoing,
		},
		{
			name: "unrelated",
			tx:   models.Transaction{FromID: "x", ToID: "y"},
			want: DirectionOther,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Direction(tc.tx, user))
		})
	}
}
