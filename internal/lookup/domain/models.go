package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TableName is the plugin-owned lookup table. It is created on install and
// dropped wholesale on uninstall; every row is derivable from the host
// order store and never the system of record.
const TableName = "order_country_lookup"

// StatusPrefix is prepended to every normalized order status, both when
// storing rows and when matching user-supplied status filters, so the two
// are always directly comparable.
const StatusPrefix = "wc-"

// OrderCountry is one denormalized summary row per synced order.
type OrderCountry struct {
	OrderID      int64     `gorm:"primaryKey;column:order_id" json:"order_id"`
	DateCreated  time.Time `gorm:"not null;index" json:"date_created"`
	NetTotal     float64   `gorm:"not null;default:0" json:"net_total"`
	Status       string    `gorm:"type:varchar(200);not null;index" json:"status"`
	CustomerID   int64     `gorm:"not null;index" json:"customer_id"`
	OrderCountry string    `gorm:"type:char(2)" json:"order_country"`
}

func (OrderCountry) TableName() string { return TableName }

// NormalizeStatus trims and prefixes a raw order status.
func NormalizeStatus(status string) string {
	return StatusPrefix + strings.TrimSpace(status)
}

type Repository interface {
	// Replace upserts a full row by primary key and reports the affected
	// row count. Replace-on-conflict backends report 2 when an existing
	// key was overwritten; either 1 or 2 means success.
	Replace(ctx context.Context, db *gorm.DB, row *OrderCountry) (int64, error)
	CreateTable(ctx context.Context, db *gorm.DB) error
	DropTable(ctx context.Context, db *gorm.DB) error
}
