package repository

import (
	"context"

	"github.com/smallbiznis/orderlens/internal/orders/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Order{}).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ListIDs returns one fixed-size page of order IDs in ascending id order.
// Page numbers are 1-based.
func (r *repo) ListIDs(ctx context.Context, db *gorm.DB, page, pageSize int) ([]int64, error) {
	if page < 1 {
		page = 1
	}
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Order("id asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, record_type, date_created, status, currency, total, total_tax, shipping_total, billing_country, billing_email, user_id
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) ListRefunds(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&refunds).Error
	if err != nil {
		return nil, err
	}
	return refunds, nil
}
