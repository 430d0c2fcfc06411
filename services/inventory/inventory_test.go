package inventory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/apiclient"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/dispatcher"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/querycache"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/session"
)

func newTestService(t *testing.T, api apiclient.API) (*Service, *querycache.Cache, *session.Store) {
	t.Helper()
	cache := querycache.New()
	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	return NewService(api, cache, dispatcher.New(cache), sess), cache, sess
}

func signInSeller(t *testing.T, sess *session.Store) {
	t.Helper()
	require.NoError(t, sess.SignIn(models.User{UserID: "seller-1", Role: models.RoleSeller}, "tok-s1"))
}

// Tests LowStock
func TestLowStock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, cache, sess := newTestService(t, api)
	signInSeller(t, sess)

	cache.Put(KeyMyInventory, []models.StockRecord{
		{InventoryID: "i1", Quantity: 10, MinStockLevel: 50},
		{InventoryID: "i2", Quantity: 500, MinStockLevel: 50},
	})

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "i1", low[0].InventoryID)
}

// Tests AddStock
func TestAddStock(t *testing.T) {
	t.Parallel()

	t.Run("invalid_levels_blocked_locally", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, cache, sess := newTestService(t, api)
		signInSeller(t, sess)

		// maximum below minimum
		_, err := svc.AddStock(context.Background(), "p1", "w1", 10, 100, 50)
		require.ErrorIs(t, err, clienterrors.ErrValidation)

		var verr *clienterrors.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "max_stock_level")
		require.Equal(t, 0, cache.Invalidations(KeyMyInventory))
	})

	t.Run("success_invalidates_inventory", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, cache, sess := newTestService(t, api)
		signInSeller(t, sess)

		api.EXPECT().
			Post(gomock.Any(), "/inventories", addStockRequest{
				ProductID:     "p1",
				WarehouseID:   "w1",
				Quantity:      200,
				MinStockLevel: 50,
				MaxStockLevel: 400,
			}, gomock.Any()).
			DoAndReturn(func(ctx context.Context, path string, body, out any) error {
				*out.(*models.StockRecord) = models.StockRecord{InventoryID: "i1", ProductID: "p1", Quantity: 200}
				return nil
			})

		record, err := svc.AddStock(context.Background(), "p1", "w1", 200, 50, 400)
		require.NoError(t, err)
		require.Equal(t, "i1", record.InventoryID)
		require.Equal(t, 1, cache.Invalidations(KeyMyInventory))
	})
}

// Tests UpdateStock
func TestUpdateStock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, cache, sess := newTestService(t, api)
	signInSeller(t, sess)

	api.EXPECT().
		Put(gomock.Any(), "/inventories/i1", updateStockRequest{Quantity: 75, MinStockLevel: 50, MaxStockLevel: 400}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, path string, body, out any) error {
			*out.(*models.StockRecord) = models.StockRecord{InventoryID: "i1", Quantity: 75}
			return nil
		})

	record, err := svc.UpdateStock(context.Background(), "i1", 75, 50, 400)
	require.NoError(t, err)
	require.Equal(t, 75, record.Quantity)
	require.Equal(t, 1, cache.Invalidations(KeyMyInventory))
}

// Tests CreatePurchaseRequest
func TestCreatePurchaseRequest(t *testing.T) {
	t.Parallel()

	t.Run("zero_quantity_blocked_locally", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, _, sess := newTestService(t, api)
		signInSeller(t, sess)

		_, err := svc.CreatePurchaseRequest(context.Background(), "p1", 0)
		require.ErrorIs(t, err, clienterrors.ErrValidation)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		api := apiclient.NewMockAPI(ctrl)
		svc, cache, sess := newTestService(t, api)
		signInSeller(t, sess)

		api.EXPECT().
			Post(gomock.Any(), "/purchase-requests", purchaseRequestBody{ProductID: "p1", Quantity: 300}, gomock.Any()).
			DoAndReturn(func(ctx context.Context, path string, body, out any) error {
				*out.(*models.PurchaseRequest) = models.PurchaseRequest{RequestID: "pr1", Status: "pending"}
				return nil
			})

		pr, err := svc.CreatePurchaseRequest(context.Background(), "p1", 300)
		require.NoError(t, err)
		require.Equal(t, "pending", pr.Status)
		require.Equal(t, 1, cache.Invalidations(KeyPurchaseRequests))
	})
}

// Tests Mine session gating
func TestMineRequiresSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := apiclient.NewMockAPI(ctrl)
	svc, _, _ := newTestService(t, api)

	_, err := svc.Mine(context.Background())
	require.ErrorIs(t, err, clienterrors.ErrNotSignedIn)
}
