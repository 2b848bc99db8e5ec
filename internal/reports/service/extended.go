package service

import (
	"context"
	"fmt"

	customersdomain "github.com/smallbiznis/orderlens/internal/customers/domain"
	"github.com/smallbiznis/orderlens/internal/reports/domain"
)

// includeExtendedInfo attaches products, coupons and the resolved customer
// to each row in place. Grouped rows carry no order id and keep the empty
// defaults.
func (s *Service) includeExtendedInfo(ctx context.Context, rows []domain.Row) error {
	customerIDs := make([]int64, 0, len(rows))
	for i := range rows {
		rows[i].ExtendedInfo = &domain.ExtendedInfo{
			Products: []domain.ProductInfo{},
			Coupons:  []domain.CouponInfo{},
		}
		if rows[i].CustomerID != 0 {
			customerIDs = append(customerIDs, rows[i].CustomerID)
		}
	}

	customers, err := s.customers.ListByIDs(ctx, s.db, customerIDs)
	if err != nil {
		return fmt.Errorf("list customers: %w", err)
	}
	byID := make(map[int64]customersdomain.Customer, len(customers))
	for _, customer := range customers {
		byID[customer.CustomerID] = customer
	}

	for i := range rows {
		row := &rows[i]
		if customer, ok := byID[row.CustomerID]; ok {
			row.ExtendedInfo.Customer = customer
		}
		if row.OrderID == 0 {
			continue
		}

		products, err := s.orderProducts(ctx, row.OrderID)
		if err != nil {
			return fmt.Errorf("list order products: %w", err)
		}
		row.ExtendedInfo.Products = products

		coupons, err := s.orderCoupons(ctx, row.OrderID)
		if err != nil {
			return fmt.Errorf("list order coupons: %w", err)
		}
		row.ExtendedInfo.Coupons = coupons
	}

	return nil
}

func (s *Service) orderProducts(ctx context.Context, orderID int64) ([]domain.ProductInfo, error) {
	products := []domain.ProductInfo{}
	err := s.db.WithContext(ctx).
		Table("order_product_lookup").
		Select("products.id, products.name, order_product_lookup.quantity").
		Joins("JOIN products ON products.id = order_product_lookup.product_id").
		Where("order_product_lookup.order_id = ?", orderID).
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) orderCoupons(ctx context.Context, orderID int64) ([]domain.CouponInfo, error) {
	coupons := []domain.CouponInfo{}
	err := s.db.WithContext(ctx).
		Table("order_coupon_lookup").
		Select("coupons.id, coupons.code").
		Joins("JOIN coupons ON coupons.id = order_coupon_lookup.coupon_id").
		Where("order_coupon_lookup.order_id = ?", orderID).
		Scan(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}
