package domain

import (
	"context"
	"time"

	ordersdomain "github.com/smallbiznis/orderlens/internal/orders/domain"
	"gorm.io/gorm"
)

// Customer is a row in the customer lookup table. Rows are created lazily
// the first time an order for that identity is synced.
type Customer struct {
	CustomerID     int64     `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	UserID         int64     `gorm:"not null;default:0;index" json:"user_id"`
	Email          string    `gorm:"not null;default:'';index" json:"email"`
	FirstName      string    `gorm:"not null;default:''" json:"first_name"`
	LastName       string    `gorm:"not null;default:''" json:"last_name"`
	Country        string    `gorm:"type:char(2)" json:"country,omitempty"`
	DateRegistered time.Time `gorm:"not null" json:"date_registered"`
}

func (Customer) TableName() string { return "customers" }

type Repository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID int64) (*Customer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Customer, error)
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	ListByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Customer, error)
}

// Resolver maps an order to a customer id, creating the customer record
// when the identity has not been seen before. Returns 0 when the order
// carries no identifiable customer.
type Resolver interface {
	GetOrCreateFromOrder(ctx context.Context, order *ordersdomain.Order) (int64, error)
}
