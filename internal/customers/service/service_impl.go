package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/orderlens/internal/customers/domain"
	ordersdomain "github.com/smallbiznis/orderlens/internal/orders/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Resolver {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("customers.service"),
		repo: p.Repo,
	}
}

// GetOrCreateFromOrder resolves the customer record for an order, creating
// one on first sight. A registered user id wins over the billing email; an
// order with neither resolves to 0.
func (s *Service) GetOrCreateFromOrder(ctx context.Context, order *ordersdomain.Order) (int64, error) {
	if order == nil {
		return 0, nil
	}

	email := strings.ToLower(strings.TrimSpace(order.BillingEmail))

	if order.UserID != 0 {
		existing, err := s.repo.FindByUserID(ctx, s.db, order.UserID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.CustomerID, nil
		}
	} else if email != "" {
		existing, err := s.repo.FindByEmail(ctx, s.db, email)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.CustomerID, nil
		}
	} else {
		return 0, nil
	}

	customer := domain.Customer{
		UserID:         order.UserID,
		Email:          email,
		Country:        order.BillingCountry,
		DateRegistered: order.DateCreated,
	}
	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return 0, err
	}

	s.log.Debug("customer created from order",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", customer.CustomerID),
	)
	return customer.CustomerID, nil
}
