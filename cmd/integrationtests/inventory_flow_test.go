package integrationtests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
)

// Walks the stock pages: record, update, low-stock report, restock request.
func TestInventoryLifecycle(t *testing.T) {
	backend := newTestBackend(t)
	seller := signUpStack(t, backend.URL, "Sadia Rahman", "seller@bidstock.dev", models.RoleSeller)

	ctx := context.Background()

	record, err := seller.Inventory.AddStock(ctx, "prod-steel-coils", "w1", 20, 50, 400)
	require.NoError(t, err)
	require.NotEmpty(t, record.InventoryID)

	t.Run("low_stock_flags_it", func(t *testing.T) {
		low, err := seller.Inventory.LowStock(ctx)
		require.NoError(t, err)
		require.Len(t, low, 1)
		require.Equal(t, record.InventoryID, low[0].InventoryID)
	})

	t.Run("restock_request_is_explicit", func(t *testing.T) {
		pr, err := seller.Inventory.CreatePurchaseRequest(ctx, "prod-steel-coils", 300)
		require.NoError(t, err)
		require.Equal(t, "pending", pr.Status)
	})

	t.Run("update_clears_the_flag", func(t *testing.T) {
		updated, err := seller.Inventory.UpdateStock(ctx, record.InventoryID, 200, 50, 400)
		require.NoError(t, err)
		require.Equal(t, 200, updated.Quantity)

		low, err := seller.Inventory.LowStock(ctx)
		require.NoError(t, err)
		require.Empty(t, low)
	})

	t.Run("another_seller_sees_nothing", func(t *testing.T) {
		other := signUpStack(t, backend.URL, "Nabila Islam", "other@bidstock.dev", models.RoleSeller)
		records, err := other.Inventory.Mine(ctx)
		require.NoError(t, err)
		require.Empty(t, records)
	})
}
