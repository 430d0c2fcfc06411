package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// RentReference builds the payment reference attached to a warehouse rental
// transaction, e.g. "RENT-wh42-1735689600000".
func RentReference(warehouseID string) string {
	return fmt.Sprintf("RENT-%s-%d", warehouseID, time.Now().UnixMilli())
}

// SaleReference builds the payment reference attached to an accepted-offer
// sale transaction.
func SaleReference(bidID string) string {
	return fmt.Sprintf("SALE-%s-%d", bidID, time.Now().UnixMilli())
}
