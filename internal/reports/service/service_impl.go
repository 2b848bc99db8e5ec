package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smallbiznis/orderlens/internal/cache"
	customersdomain "github.com/smallbiznis/orderlens/internal/customers/domain"
	lookupdomain "github.com/smallbiznis/orderlens/internal/lookup/domain"
	obsmetrics "github.com/smallbiznis/orderlens/internal/observability/metrics"
	"github.com/smallbiznis/orderlens/internal/reports/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("reports service is missing required dependencies")

// Config controls report defaults.
type Config struct {
	DefaultPerPage int
}

func (c Config) withDefaults() Config {
	if c.DefaultPerPage <= 0 {
		c.DefaultPerPage = 25
	}
	return c
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cache     cache.Store
	Customers customersdomain.Repository
	Config    Config `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	cache     cache.Store
	customers customersdomain.Repository
	cfg       Config
}

func New(p Params) (domain.Service, error) {
	if p.DB == nil || p.Log == nil || p.Cache == nil || p.Customers == nil {
		return nil, ErrInvalidConfig
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reports.service"),
		cache:     p.Cache,
		customers: p.Customers,
		cfg:       p.Config.withDefaults(),
	}, nil
}

// GetData returns one page of per-country aggregates over the lookup table.
// Results are cached by a fingerprint of the normalized argument set; cache
// staleness after a sync is tolerated.
func (s *Service) GetData(ctx context.Context, query domain.Query) (domain.Result, error) {
	n := s.normalize(query)
	key := n.fingerprint()
	metrics := obsmetrics.Reports()

	if payload, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached domain.Result
		if err := json.Unmarshal(payload, &cached); err == nil {
			metrics.IncCacheHit()
			return cached, nil
		}
	}
	metrics.IncCacheMiss()

	total, err := s.countOrders(ctx, n)
	if err != nil {
		return domain.Result{}, fmt.Errorf("count report orders: %w", err)
	}

	pages := pageCount(total, n.PerPage)
	if n.Page > pages {
		// Defined out-of-range response; carries the true total and is
		// deliberately not cached.
		return domain.Result{Data: []domain.Row{}, Total: total, Pages: 0, PageNo: 0}, nil
	}

	rows, err := s.queryRows(ctx, n)
	if err != nil {
		return domain.Result{}, fmt.Errorf("query report rows: %w", err)
	}
	metrics.IncQuery()

	if n.ExtendedInfo {
		if err := s.includeExtendedInfo(ctx, rows); err != nil {
			return domain.Result{}, fmt.Errorf("extend report rows: %w", err)
		}
	}

	result := domain.Result{
		Data:   rows,
		Total:  total,
		Pages:  pages,
		PageNo: n.Page,
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, payload); err != nil {
			s.log.Warn("report cache set failed", zap.Error(err))
		}
	}

	return result, nil
}

func pageCount(total int64, perPage int) int {
	if total == 0 {
		return 0
	}
	if perPage == 0 {
		// Unlimited page size: everything fits on page 1.
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// buildBase assembles the filtered, deduplicated statement the count and
// the grouped select both run over. Product/coupon lookup tables are only
// joined when their filters are present.
func (s *Service) buildBase(ctx context.Context, n normalizedQuery) *gorm.DB {
	if !n.hasProductFilter() && !n.hasCouponFilter() {
		return s.applyRowFilters(s.lookupTable(ctx), n)
	}

	// Joins can fan out one order into many rows; aggregate over the
	// distinct filtered ids instead.
	sub := s.applyRowFilters(s.lookupTable(ctx), n).
		Select("DISTINCT " + lookupdomain.TableName + ".order_id")

	if n.hasProductFilter() {
		sub = sub.Joins("JOIN order_product_lookup ON order_product_lookup.order_id = " + lookupdomain.TableName + ".order_id")
		if len(n.ProductIncludes) > 0 {
			sub = sub.Where("order_product_lookup.product_id IN ?", n.ProductIncludes)
		}
		if len(n.ProductExcludes) > 0 {
			sub = sub.Where("NOT EXISTS (SELECT 1 FROM order_product_lookup excluded WHERE excluded.order_id = "+lookupdomain.TableName+".order_id AND excluded.product_id IN ?)", n.ProductExcludes)
		}
	}
	if n.hasCouponFilter() {
		sub = sub.Joins("JOIN order_coupon_lookup ON order_coupon_lookup.order_id = " + lookupdomain.TableName + ".order_id")
		if len(n.CouponIncludes) > 0 {
			sub = sub.Where("order_coupon_lookup.coupon_id IN ?", n.CouponIncludes)
		}
		if len(n.CouponExcludes) > 0 {
			sub = sub.Where("NOT EXISTS (SELECT 1 FROM order_coupon_lookup excluded WHERE excluded.order_id = "+lookupdomain.TableName+".order_id AND excluded.coupon_id IN ?)", n.CouponExcludes)
		}
	}

	return s.lookupTable(ctx).Where("order_id IN (?)", sub)
}

func (s *Service) lookupTable(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(lookupdomain.TableName)
}

func (s *Service) applyRowFilters(stmt *gorm.DB, n normalizedQuery) *gorm.DB {
	table := lookupdomain.TableName

	if !n.After.IsZero() {
		stmt = stmt.Where(table+".date_created >= ?", n.After)
	}
	if !n.Before.IsZero() {
		stmt = stmt.Where(table+".date_created <= ?", n.Before)
	}
	if len(n.StatusIs) > 0 {
		stmt = stmt.Where(table+".status IN ?", n.StatusIs)
	}
	if len(n.StatusIsNot) > 0 {
		stmt = stmt.Where(table+".status NOT IN ?", n.StatusIsNot)
	}

	switch n.CustomerType {
	case domain.CustomerTypeReturning:
		stmt = stmt.Where("EXISTS (SELECT 1 FROM " + table + " prior WHERE prior.customer_id = " + table + ".customer_id AND prior.customer_id <> 0 AND prior.order_id < " + table + ".order_id)")
	case domain.CustomerTypeNew:
		stmt = stmt.Where("NOT EXISTS (SELECT 1 FROM " + table + " prior WHERE prior.customer_id = " + table + ".customer_id AND prior.customer_id <> 0 AND prior.order_id < " + table + ".order_id)")
	}

	return stmt
}

func (s *Service) countOrders(ctx context.Context, n normalizedQuery) (int64, error) {
	var total int64
	err := s.buildBase(ctx, n).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) queryRows(ctx context.Context, n normalizedQuery) ([]domain.Row, error) {
	stmt := s.buildBase(ctx, n).
		Select("order_country, COUNT(*) AS orders_count, SUM(net_total) AS net_total").
		Group("order_country").
		Order(n.orderClause())

	if n.PerPage > 0 {
		stmt = stmt.Limit(n.PerPage).Offset((n.Page - 1) * n.PerPage)
	}

	var rows []domain.Row
	if err := stmt.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	return rows, nil
}
