package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	customersdomain "github.com/smallbiznis/orderlens/internal/customers/domain"
	ordersdomain "github.com/smallbiznis/orderlens/internal/orders/domain"
	"gorm.io/gorm"
)

// Demo fixture shape: a handful of countries with uneven order volume so
// the leaderboard has something to rank.
var demoCountries = []struct {
	code   string
	orders int
}{
	{"US", 8},
	{"DE", 5},
	{"GB", 3},
	{"FR", 2},
	{"NL", 1},
}

// EnsureDemoData seeds a small deterministic order book for local
// development. It is a no-op when any orders already exist.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ordersdomain.Order{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return seedOrders(tx)
	})
}

func seedOrders(tx *gorm.DB) error {
	base := time.Now().UTC().AddDate(0, -1, 0)
	var id int64

	for _, country := range demoCountries {
		for i := 0; i < country.orders; i++ {
			id++
			order := ordersdomain.Order{
				ID:             id,
				RecordType:     ordersdomain.RecordTypeOrder,
				DateCreated:    base.AddDate(0, 0, int(id)),
				Status:         demoStatus(id),
				Currency:       "USD",
				Total:          float64(20 + id*3),
				TotalTax:       float64(id),
				ShippingTotal:  5,
				BillingCountry: country.code,
				BillingEmail:   fmt.Sprintf("buyer%d@example.com", id),
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
		}
	}

	// One refund and one registered customer keep the net-total and
	// customer-type paths exercised.
	refund := ordersdomain.Refund{ID: id + 1, OrderID: 1, Total: -10, TotalTax: -1}
	if err := tx.Create(&refund).Error; err != nil {
		return err
	}

	customer := customersdomain.Customer{
		UserID:         1,
		Email:          "buyer1@example.com",
		FirstName:      "Demo",
		LastName:       "Buyer",
		Country:        "US",
		DateRegistered: base,
	}
	return tx.Create(&customer).Error
}

func demoStatus(id int64) string {
	switch id % 7 {
	case 0:
		return "pending"
	case 5:
		return "refunded"
	default:
		return "completed"
	}
}
