// Package cli maps the dashboard's page actions onto subcommands. Command
// output goes to stdout; logging stays on stderr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/app"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/fakeapi"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/nav"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/selectors"
	"github.com/ishtiakalhumaidi/bidstock-client/services/accounts"
	"github.com/ishtiakalhumaidi/bidstock-client/services/rentals"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

const usage = `bidstock <command> [args]

Account:
  signin <email> <password>
  signup <name> <email> <password> <role>
  signout
  whoami
  nav
  stats
  profile [user_id]
  update-profile <name> [image_url]

Auctions:
  auctions [active|upcoming|ended|all]
  auction <bid_id>
  my-auctions
  create-auction <product_id> <base_price> <start> <end>   (times RFC3339)
  offer <bid_id> <amount>
  offers <bid_id>
  accept-offer <offer_id> <bid_id>

Warehouses:
  warehouses
  my-warehouses
  create-warehouse <name> <location> <capacity> <daily_rate>
  rent-quote <warehouse_id> <start> <end>                  (dates YYYY-MM-DD)
  rent <warehouse_id> <start> <end>
  my-rents

Inventory:
  inventory
  low-stock
  add-stock <product_id> <warehouse_id> <qty> <min> <max>
  request-restock <product_id> <qty>

Payments:
  transactions
  pay <transaction_id>

Development:
  mock-api
`

// Run dispatches one command against the wired app. It returns a process
// exit code.
func Run(a *app.App, out io.Writer, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return 2
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	err := runCommand(ctx, a, out, cmd, rest)
	if err == nil {
		return 0
	}

	if errors.Is(err, errUsage) {
		fmt.Fprint(out, usage)
		return 2
	}

	// Validation problems are the user's to fix inline; everything else is
	// a failed action that left state untouched.
	var verr *clienterrors.ValidationError
	if errors.As(err, &verr) {
		for field, message := range verr.Fields {
			fmt.Fprintf(out, "  %s: %s\n", field, message)
		}
		return 1
	}
	if apiErr, ok := clienterrors.AsAPIError(err); ok {
		fmt.Fprintf(out, "request failed: %s\n", apiErr.Message)
		return 1
	}

	fmt.Fprintf(out, "error: %v\n", err)
	return 1
}

var errUsage = errors.New("usage")

func runCommand(ctx context.Context, a *app.App, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "signin":
		if len(args) != 2 {
			return errUsage
		}
		user, err := a.Accounts.SignIn(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "signed in as %s (%s)\n", user.Name, user.Role)
		return nil

	case "signup":
		if len(args) != 4 {
			return errUsage
		}
		user, err := a.Accounts.SignUp(ctx, accounts.SignupInput{
			Name:     args[0],
			Email:    args[1],
			Password: args[2],
			Role:     args[3],
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "account created: %s (%s)\n", user.Name, user.Role)
		return nil

	case "signout":
		if err := a.Accounts.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(out, "signed out")
		return nil

	case "whoami":
		user, ok := a.Session.User()
		if !ok {
			fmt.Fprintln(out, "not signed in")
			return nil
		}
		fmt.Fprintf(out, "%s <%s> role=%s authenticated=%t\n", user.Name, user.Email, user.Role, a.Session.IsAuthenticated())
		return nil

	case "nav":
		links := nav.LinksFor(a.Session.Role())
		w := newTable(out)
		for _, link := range links {
			fmt.Fprintf(w, "%s\t%s\n", link.Label, link.Route)
		}
		return w.Flush()

	case "stats":
		stats, err := a.Accounts.DashboardStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "role=%s products=%d active_auctions=%d pending_offers=%d transactions=%d revenue=%.2f\n",
			stats.Role, stats.TotalProducts, stats.ActiveAuctions, stats.PendingOffers, stats.TotalTransactions, stats.Revenue)
		return nil

	case "profile":
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		} else if user, ok := a.Session.User(); ok {
			userID = user.UserID
		} else {
			return clienterrors.ErrNotSignedIn
		}
		user, err := a.Accounts.Profile(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s <%s> role=%s\n", user.Name, user.Email, user.Role)
		return nil

	case "update-profile":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		image := ""
		if len(args) == 2 {
			image = args[1]
		}
		user, err := a.Accounts.UpdateProfile(ctx, args[0], image)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "profile updated: %s\n", user.Name)
		return nil

	case "auctions":
		return printAuctions(ctx, a, out, args)

	case "auction":
		if len(args) != 1 {
			return errUsage
		}
		auction, err := a.Auctions.Get(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n  seller: %s\n  current: %.2f (base %.2f)\n  window: %s .. %s\n  status: %s\n",
			auction.BidID, auction.ProductName, auction.SellerName, selectors.CurrentPrice(auction), auction.BasePrice,
			auction.StartTime.Format(time.RFC3339), auction.EndTime.Format(time.RFC3339), auction.Status)
		return nil

	case "my-auctions":
		list, err := a.Auctions.MyAuctions(ctx)
		if err != nil {
			return err
		}
		return printAuctionRows(out, list)

	case "create-auction":
		if len(args) != 4 {
			return errUsage
		}
		base, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: base price must be a number", clienterrors.ErrValidation)
		}
		start, err := time.Parse(time.RFC3339, args[2])
		if err != nil {
			return fmt.Errorf("%w: start must be RFC3339", clienterrors.ErrValidation)
		}
		end, err := time.Parse(time.RFC3339, args[3])
		if err != nil {
			return fmt.Errorf("%w: end must be RFC3339", clienterrors.ErrValidation)
		}
		created, err := a.Auctions.CreateAuction(ctx, args[0], base, start, end)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "auction created: %s\n", created.BidID)
		return nil

	case "offer":
		if len(args) != 2 {
			return errUsage
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: amount must be a number", clienterrors.ErrValidation)
		}
		offer, err := a.Auctions.PlaceOffer(ctx, args[0], amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "offer placed: %s at %.2f\n", offer.OfferID, offer.OfferedPrice)
		return nil

	case "offers":
		if len(args) != 1 {
			return errUsage
		}
		offers, err := a.Auctions.Offers(ctx, args[0])
		if err != nil {
			return err
		}
		w := newTable(out)
		fmt.Fprintln(w, "OFFER\tBUYER\tAMOUNT\tSTATUS")
		for _, o := range offers {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", o.OfferID, o.BuyerName, o.OfferedPrice, o.Status)
		}
		return w.Flush()

	case "accept-offer":
		if len(args) != 2 {
			return errUsage
		}
		offer, err := a.Auctions.AcceptOffer(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "offer %s accepted at %.2f\n", offer.OfferID, offer.OfferedPrice)
		return nil

	case "warehouses":
		list, err := a.Rentals.List(ctx)
		if err != nil {
			return err
		}
		return printWarehouseRows(out, list)

	case "my-warehouses":
		list, err := a.Rentals.MyWarehouses(ctx)
		if err != nil {
			return err
		}
		return printWarehouseRows(out, list)

	case "create-warehouse":
		if len(args) != 4 {
			return errUsage
		}
		capacity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: capacity must be an integer", clienterrors.ErrValidation)
		}
		price, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("%w: daily rate must be a number", clienterrors.ErrValidation)
		}
		w, err := a.Rentals.CreateWarehouse(ctx, args[0], args[1], capacity, price)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "warehouse created: %s\n", w.WarehouseID)
		return nil

	case "rent-quote":
		if len(args) != 3 {
			return errUsage
		}
		quote, err := a.Rentals.Quote(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		printQuote(out, quote)
		return nil

	case "rent":
		if len(args) != 3 {
			return errUsage
		}
		result, err := a.Rentals.Rent(ctx, args[0], args[1], args[2])
		if err != nil {
			var comp *rentals.CompensationError
			if errors.As(err, &comp) {
				fmt.Fprintf(out, "rental failed after payment %s\n", comp.TransactionID)
				if comp.VoidErr == nil {
					fmt.Fprintln(out, "the payment was voided; nothing was charged")
				} else {
					fmt.Fprintln(out, "the payment could NOT be voided; contact support with the transaction id")
				}
			}
			return err
		}
		printQuote(out, result.Quote)
		fmt.Fprintf(out, "paid %.2f (transaction %s), rent %s confirmed\n",
			result.Transaction.Amount, result.Transaction.TransactionID, result.Rent.RentID)
		return nil

	case "my-rents":
		rents, err := a.Rentals.MyRents(ctx)
		if err != nil {
			return err
		}
		w := newTable(out)
		fmt.Fprintln(w, "RENT\tWAREHOUSE\tFROM\tTO\tSTATUS")
		for _, r := range rents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.RentID, r.WarehouseID, r.StartDate, r.EndDate, r.Status)
		}
		return w.Flush()

	case "inventory":
		records, err := a.Inventory.Mine(ctx)
		if err != nil {
			return err
		}
		return printStockRows(out, records)

	case "low-stock":
		records, err := a.Inventory.LowStock(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "no items below threshold")
			return nil
		}
		return printStockRows(out, records)

	case "add-stock":
		if len(args) != 5 {
			return errUsage
		}
		qty, minLevel, maxLevel, err := parseStockLevels(args[2], args[3], args[4])
		if err != nil {
			return err
		}
		record, err := a.Inventory.AddStock(ctx, args[0], args[1], qty, minLevel, maxLevel)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "stock recorded: %s\n", record.InventoryID)
		return nil

	case "request-restock":
		if len(args) != 2 {
			return errUsage
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: quantity must be an integer", clienterrors.ErrValidation)
		}
		pr, err := a.Inventory.CreatePurchaseRequest(ctx, args[0], qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "purchase request raised: %s\n", pr.RequestID)
		return nil

	case "transactions":
		txs, err := a.Transactions.Mine(ctx)
		if err != nil {
			return err
		}
		w := newTable(out)
		fmt.Fprintln(w, "TRANSACTION\tDIRECTION\tTYPE\tAMOUNT\tSTATUS\tREFERENCE")
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
				tx.TransactionID, tx.Direction, tx.Type, tx.Amount, tx.Status, tx.ReferenceID)
		}
		return w.Flush()

	case "pay":
		if len(args) != 1 {
			return errUsage
		}
		tx, err := a.Transactions.Pay(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "transaction %s is now %s\n", tx.TransactionID, tx.Status)
		return nil

	case "mock-api":
		server := fakeapi.NewServer(a.Config.MockSecret)
		server.Seed()
		utils.Info("starting mock BidStock API", map[string]any{"addr": a.Config.MockAddr})
		return http.ListenAndServe(a.Config.MockAddr, server.Router())

	default:
		return errUsage
	}
}

func parseStockLevels(qty, minLevel, maxLevel string) (int, int, int, error) {
	q, err := strconv.Atoi(qty)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: quantity must be an integer", clienterrors.ErrValidation)
	}
	lo, err := strconv.Atoi(minLevel)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: minimum must be an integer", clienterrors.ErrValidation)
	}
	hi, err := strconv.Atoi(maxLevel)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: maximum must be an integer", clienterrors.ErrValidation)
	}
	return q, lo, hi, nil
}

func printAuctions(ctx context.Context, a *app.App, out io.Writer, args []string) error {
	filter := "active"
	if len(args) == 1 {
		filter = args[0]
	}

	buckets, err := a.Auctions.Partition(ctx)
	if err != nil {
		return err
	}

	var list []models.Auction
	switch filter {
	case "active":
		list = buckets.Active
	case "upcoming":
		list = buckets.Upcoming
	case "ended":
		list = buckets.Ended
	case "all":
		list = append(append(buckets.Active, buckets.Upcoming...), buckets.Ended...)
	default:
		return errUsage
	}
	return printAuctionRows(out, list)
}

func printAuctionRows(out io.Writer, list []models.Auction) error {
	w := newTable(out)
	fmt.Fprintln(w, "BID\tPRODUCT\tCURRENT\tENDS\tSTATUS")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			a.BidID, a.ProductName, selectors.CurrentPrice(a), a.EndTime.Format(time.RFC3339), a.Status)
	}
	return w.Flush()
}

func printWarehouseRows(out io.Writer, list []models.Warehouse) error {
	w := newTable(out)
	fmt.Fprintln(w, "WAREHOUSE\tNAME\tLOCATION\tAVAILABLE\tRATE/DAY\tSTATUS")
	for _, wh := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%.2f\t%s\n",
			wh.WarehouseID, wh.Name, wh.Location, wh.Available, wh.Capacity, wh.Price, wh.Status)
	}
	return w.Flush()
}

func printStockRows(out io.Writer, records []models.StockRecord) error {
	w := newTable(out)
	fmt.Fprintln(w, "INVENTORY\tPRODUCT\tWAREHOUSE\tQTY\tMIN\tMAX\tLOW")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%t\n",
			rec.InventoryID, rec.ProductID, rec.WarehouseID,
			rec.Quantity, rec.MinStockLevel, rec.MaxStockLevel, selectors.IsLowStock(rec))
	}
	return w.Flush()
}

func printQuote(out io.Writer, quote selectors.RentalQuote) {
	fmt.Fprintf(out, "duration: %d days\nrent: %.2f\nservice fee (5%%): %.2f\ntotal: %.2f\n",
		quote.Days, quote.RentCost, quote.ServiceFee, quote.Total)
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}
