package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/orderlens/internal/cache"
	customersdomain "github.com/smallbiznis/orderlens/internal/customers/domain"
	customersrepo "github.com/smallbiznis/orderlens/internal/customers/repository"
	lookupdomain "github.com/smallbiznis/orderlens/internal/lookup/domain"
	obsmetrics "github.com/smallbiznis/orderlens/internal/observability/metrics"
	"github.com/smallbiznis/orderlens/internal/reports/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	obsmetrics.ResetForTest()

	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&lookupdomain.OrderCountry{}, &customersdomain.Customer{}))
	require.NoError(t, gdb.Exec(`CREATE TABLE order_product_lookup (order_id INTEGER NOT NULL, product_id INTEGER NOT NULL, quantity INTEGER NOT NULL DEFAULT 1)`).Error)
	require.NoError(t, gdb.Exec(`CREATE TABLE order_coupon_lookup (order_id INTEGER NOT NULL, coupon_id INTEGER NOT NULL)`).Error)

	svc, err := New(Params{
		DB:        gdb,
		Log:       zap.NewNop(),
		Cache:     cache.NewMemory(64, time.Minute),
		Customers: customersrepo.Provide(),
		Config:    Config{DefaultPerPage: 25},
	})
	require.NoError(t, err)
	return svc.(*Service), gdb
}

func seedRow(t *testing.T, gdb *gorm.DB, row lookupdomain.OrderCountry) {
	t.Helper()
	if row.Status == "" {
		row.Status = "wc-completed"
	}
	if row.DateCreated.IsZero() {
		row.DateCreated = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	}
	require.NoError(t, gdb.Create(&row).Error)
}

func TestGetDataGroupsAndRanksCountries(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US", NetTotal: 10})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "US", NetTotal: 20})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 3, OrderCountry: "US", NetTotal: 5})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 4, OrderCountry: "DE", NetTotal: 100})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 5, OrderCountry: "DE", NetTotal: 1})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 6, OrderCountry: "FR", NetTotal: 7})

	result, err := svc.GetData(context.Background(), domain.Query{})
	require.NoError(t, err)

	assert.Equal(t, int64(6), result.Total)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, result.PageNo)
	require.Len(t, result.Data, 3)

	assert.Equal(t, "US", result.Data[0].OrderCountry)
	assert.Equal(t, int64(3), result.Data[0].OrdersCount)
	assert.Equal(t, float64(35), result.Data[0].NetTotal)
	assert.Equal(t, "DE", result.Data[1].OrderCountry)
	assert.Equal(t, "FR", result.Data[2].OrderCountry)
}

func TestGetDataOrderByNetTotal(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US", NetTotal: 10})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "DE", NetTotal: 100})

	result, err := svc.GetData(context.Background(), domain.Query{OrderBy: "net_total", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "US", result.Data[0].OrderCountry)
	assert.Equal(t, "DE", result.Data[1].OrderCountry)
}

func TestGetDataDefaultStatusDenyList(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US", Status: "wc-completed"})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "US", Status: "wc-pending"})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 3, OrderCountry: "US", Status: "wc-failed"})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 4, OrderCountry: "US", Status: "wc-cancelled"})

	result, err := svc.GetData(context.Background(), domain.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	// An explicit status filter disables the default deny-list.
	explicit, err := svc.GetData(context.Background(), domain.Query{StatusIs: []string{"pending"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), explicit.Total)
	require.Len(t, explicit.Data, 1)
	assert.Equal(t, int64(1), explicit.Data[0].OrdersCount)
}

func TestGetDataDateWindow(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US", DateCreated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "US", DateCreated: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 3, OrderCountry: "US", DateCreated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})

	after := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	result, err := svc.GetData(context.Background(), domain.Query{After: &after, Before: &before})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestGetDataOutOfRangePage(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US"})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "DE"})

	result, err := svc.GetData(context.Background(), domain.Query{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, int64(2), result.Total)
	assert.Zero(t, result.Pages)
	assert.Zero(t, result.PageNo)
}

func TestGetDataPagination(t *testing.T) {
	svc, gdb := newTestService(t)
	countries := []string{"US", "DE", "FR", "GB", "NL"}
	for i, country := range countries {
		seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: int64(i + 1), OrderCountry: country, NetTotal: float64(100 - i)})
	}

	perPage := 2
	result, err := svc.GetData(context.Background(), domain.Query{PerPage: &perPage, Page: 2, OrderBy: "net_total"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 2, result.PageNo)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "FR", result.Data[0].OrderCountry)
	assert.Equal(t, "GB", result.Data[1].OrderCountry)
}

func TestGetDataServesFromCache(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US", NetTotal: 10})

	first, err := svc.GetData(context.Background(), domain.Query{})
	require.NoError(t, err)
	require.Len(t, first.Data, 1)

	// New rows are invisible until the cache entry expires.
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "DE", NetTotal: 5})

	second, err := svc.GetData(context.Background(), domain.Query{})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A different argument set misses the cache and sees the new row.
	fresh, err := svc.GetData(context.Background(), domain.Query{Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.Total)
}

func TestGetDataCustomerTypeFilter(t *testing.T) {
	svc, gdb := newTestService(t)
	// Customer 7 orders twice; customer 8 once; one guest order.
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US", CustomerID: 7})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "US", CustomerID: 7})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 3, OrderCountry: "DE", CustomerID: 8})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 4, OrderCountry: "FR", CustomerID: 0})

	returning, err := svc.GetData(context.Background(), domain.Query{CustomerType: domain.CustomerTypeReturning})
	require.NoError(t, err)
	assert.Equal(t, int64(1), returning.Total)

	newCustomers, err := svc.GetData(context.Background(), domain.Query{CustomerType: domain.CustomerTypeNew})
	require.NoError(t, err)
	assert.Equal(t, int64(3), newCustomers.Total)
}

func TestGetDataProductAndCouponFilters(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US"})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 2, OrderCountry: "US"})
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 3, OrderCountry: "DE"})
	require.NoError(t, gdb.Exec(`INSERT INTO order_product_lookup (order_id, product_id, quantity) VALUES (1, 100, 1), (2, 100, 2), (2, 200, 1), (3, 300, 1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO order_coupon_lookup (order_id, coupon_id) VALUES (1, 9)`).Error)

	byProduct, err := svc.GetData(context.Background(), domain.Query{ProductIncludes: []int64{100}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byProduct.Total)
	require.Len(t, byProduct.Data, 1)
	assert.Equal(t, int64(2), byProduct.Data[0].OrdersCount)

	excluded, err := svc.GetData(context.Background(), domain.Query{
		ProductIncludes: []int64{100},
		ProductExcludes: []int64{200},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), excluded.Total)

	byCoupon, err := svc.GetData(context.Background(), domain.Query{CouponIncludes: []int64{9}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCoupon.Total)
}

func TestGetDataExtendedInfoDefaults(t *testing.T) {
	svc, gdb := newTestService(t)
	seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: 1, OrderCountry: "US"})

	result, err := svc.GetData(context.Background(), domain.Query{ExtendedInfo: true})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	require.NotNil(t, result.Data[0].ExtendedInfo)
	assert.Empty(t, result.Data[0].ExtendedInfo.Products)
	assert.Empty(t, result.Data[0].ExtendedInfo.Coupons)
	assert.Zero(t, result.Data[0].ExtendedInfo.Customer.CustomerID)
}

func TestNormalizeDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	n := svc.normalize(domain.Query{})
	assert.Equal(t, 25, n.PerPage)
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, "orders_count", n.OrderBy)
	assert.Equal(t, "desc", n.Order)
	assert.ElementsMatch(t, []string{"wc-pending", "wc-failed", "wc-cancelled"}, n.StatusIsNot)

	// Unknown sort columns fall back instead of reaching the query.
	n = svc.normalize(domain.Query{OrderBy: "1; DROP TABLE order_country_lookup"})
	assert.Equal(t, "orders_count", n.OrderBy)
}

func TestFingerprintStability(t *testing.T) {
	svc, _ := newTestService(t)

	a := svc.normalize(domain.Query{ProductIncludes: []int64{2, 1}})
	b := svc.normalize(domain.Query{ProductIncludes: []int64{1, 2}})
	assert.Equal(t, a.fingerprint(), b.fingerprint())

	c := svc.normalize(domain.Query{ProductIncludes: []int64{1, 3}})
	assert.NotEqual(t, a.fingerprint(), c.fingerprint())
}

func TestPerPageZeroReturnsEverything(t *testing.T) {
	svc, gdb := newTestService(t)
	for i := 1; i <= 30; i++ {
		seedRow(t, gdb, lookupdomain.OrderCountry{OrderID: int64(i), OrderCountry: fmt.Sprintf("C%d", i%28)})
	}

	zero := 0
	result, err := svc.GetData(context.Background(), domain.Query{PerPage: &zero})
	require.NoError(t, err)
	assert.Equal(t, int64(30), result.Total)
	assert.Equal(t, 1, result.Pages)
	assert.Len(t, result.Data, 28)
}
