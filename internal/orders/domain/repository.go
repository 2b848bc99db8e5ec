package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	ListIDs(ctx context.Context, db *gorm.DB, page, pageSize int) ([]int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	ListRefunds(ctx context.Context, db *gorm.DB, orderID int64) ([]Refund, error)
}
