package fakeapi

import (
	"time"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// Seed populates the store with sample accounts and listings for local
// development. Every seeded account uses the password "password123".
func (s *Server) Seed() {
	seller, err := s.store.CreateUser("Sadia Rahman", "seller@bidstock.dev", "password123", models.RoleSeller)
	if err != nil {
		utils.Warn("seed: seller exists", map[string]any{"error": err.Error()})
		return
	}
	buyer, _ := s.store.CreateUser("Tanvir Ahmed", "buyer@bidstock.dev", "password123", models.RoleBuyer)
	owner, _ := s.store.CreateUser("Mehedi Hasan", "owner@bidstock.dev", "password123", models.RoleWarehouseOwner)

	now := time.Now()
	s.store.AddAuction(models.Auction{
		ProductID:   "prod-steel-coils",
		ProductName: "Cold-rolled steel coils, 40t lot",
		SellerID:    seller.UserID,
		SellerName:  seller.Name,
		BasePrice:   12000,
		StartTime:   now.Add(-2 * time.Hour),
		EndTime:     now.Add(46 * time.Hour),
	})
	s.store.AddAuction(models.Auction{
		ProductID:   "prod-cotton-bales",
		ProductName: "Cotton bales, grade A, 500 units",
		SellerID:    seller.UserID,
		SellerName:  seller.Name,
		BasePrice:   8500,
		StartTime:   now.Add(24 * time.Hour),
		EndTime:     now.Add(72 * time.Hour),
	})

	s.store.AddWarehouse(models.Warehouse{
		OwnerID:  owner.UserID,
		Name:     "Tejgaon Storage Hub",
		Location: "Tejgaon, Dhaka",
		Capacity: 5000,
		Price:    120,
	})
	s.store.AddWarehouse(models.Warehouse{
		OwnerID:  owner.UserID,
		Name:     "Chattogram Port Depot",
		Location: "Chattogram",
		Capacity: 12000,
		Price:    200,
	})

	s.store.AddStock(models.StockRecord{
		ProductID:     "prod-steel-coils",
		WarehouseID:   "unassigned",
		Quantity:      15,
		MinStockLevel: 50,
		MaxStockLevel: 400,
	}, seller.UserID)

	utils.Info("mock API seeded", map[string]any{
		"seller": seller.Email,
		"buyer":  buyer.Email,
		"owner":  owner.Email,
	})
}
