package repository

import (
	"context"

	"github.com/smallbiznis/orderlens/internal/customers/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID int64) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT customer_id, user_id, email, first_name, last_name, country, date_registered
		 FROM customers WHERE user_id = ? LIMIT 1`,
		userID,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.CustomerID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT customer_id, user_id, email, first_name, last_name, country, date_registered
		 FROM customers WHERE email = ? LIMIT 1`,
		email,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.CustomerID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) ListByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var customers []domain.Customer
	err := db.WithContext(ctx).
		Where("customer_id IN ?", ids).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
