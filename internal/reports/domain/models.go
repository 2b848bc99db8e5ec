package domain

import (
	"context"
	"time"

	customersdomain "github.com/smallbiznis/orderlens/internal/customers/domain"
)

const (
	CustomerTypeNew       = "new"
	CustomerTypeReturning = "returning"
)

// DefaultExcludedStatuses is the deny-list applied when a query supplies
// neither StatusIs nor StatusIsNot. Statuses are raw (unprefixed) here and
// normalized alongside user input.
var DefaultExcludedStatuses = []string{"pending", "failed", "cancelled"}

// Query selects, filters and pages the grouped country report.
type Query struct {
	// PerPage defaults to the configured page size when nil; 0 means
	// unlimited.
	PerPage *int
	// Page is 1-based.
	Page    int
	Order   string
	OrderBy string
	// After/Before bound date_created inclusively; nil means open-ended.
	After  *time.Time
	Before *time.Time
	// CustomerType is "new", "returning", or empty for no filter.
	CustomerType string
	// StatusIs/StatusIsNot are explicit allow/deny lists. Supplying either
	// one disables the default deny-list.
	StatusIs        []string
	StatusIsNot     []string
	ProductIncludes []int64
	ProductExcludes []int64
	CouponIncludes  []int64
	CouponExcludes  []int64
	ExtendedInfo    bool
}

type ProductInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type CouponInfo struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

// ExtendedInfo nests related detail under a report row, defaulting to
// empty structures when nothing is linked.
type ExtendedInfo struct {
	Products []ProductInfo            `json:"products"`
	Coupons  []CouponInfo             `json:"coupons"`
	Customer customersdomain.Customer `json:"customer"`
}

type Row struct {
	OrderID      int64         `json:"order_id,omitempty" gorm:"column:order_id"`
	OrderCountry string        `json:"order_country" gorm:"column:order_country"`
	OrdersCount  int64         `json:"orders_count" gorm:"column:orders_count"`
	NetTotal     float64       `json:"net_total" gorm:"column:net_total"`
	CustomerID   int64         `json:"customer_id,omitempty" gorm:"column:customer_id"`
	ExtendedInfo *ExtendedInfo `json:"extended_info,omitempty" gorm:"-"`
}

// Result is one page of grouped rows plus pagination metadata. A requested
// page beyond the computed page count yields an empty Data slice with the
// true Total and zero Pages; that is a defined response, not an error.
type Result struct {
	Data   []Row `json:"data"`
	Total  int64 `json:"total"`
	Pages  int   `json:"pages"`
	PageNo int   `json:"page_no"`
}

type Service interface {
	GetData(ctx context.Context, query Query) (Result, error)
}
