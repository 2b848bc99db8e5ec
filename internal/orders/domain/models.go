package domain

import "time"

// RecordTypeOrder is the record type the sync worker accepts. Anything else
// in the orders table (drafts, imports in flight) is skipped.
const RecordTypeOrder = "shop_order"

// Order is a primary order record in the host store. The store itself is an
// external collaborator: this service only ever reads it.
type Order struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	RecordType     string    `gorm:"column:record_type;not null;default:'shop_order'" json:"record_type"`
	DateCreated    time.Time `gorm:"not null" json:"date_created"`
	Status         string    `gorm:"not null" json:"status"`
	Currency       string    `gorm:"type:char(3)" json:"currency,omitempty"`
	Total          float64   `gorm:"not null;default:0" json:"total"`
	TotalTax       float64   `gorm:"not null;default:0" json:"total_tax"`
	ShippingTotal  float64   `gorm:"not null;default:0" json:"shipping_total"`
	BillingCountry string    `gorm:"type:char(2)" json:"billing_country,omitempty"`
	BillingEmail   string    `gorm:"" json:"billing_email,omitempty"`
	UserID         int64     `gorm:"not null;default:0" json:"user_id"`
}

func (Order) TableName() string { return "orders" }

// Refund is a refund record linked to an order.
type Refund struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	OrderID       int64   `gorm:"not null;index" json:"order_id"`
	Total         float64 `gorm:"not null;default:0" json:"total"`
	TotalTax      float64 `gorm:"not null;default:0" json:"total_tax"`
	ShippingTotal float64 `gorm:"not null;default:0" json:"shipping_total"`
}

func (Refund) TableName() string { return "order_refunds" }
