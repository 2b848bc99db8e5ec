package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	lookupdomain "github.com/smallbiznis/orderlens/internal/lookup/domain"
	"github.com/smallbiznis/orderlens/internal/reports/domain"
)

const cacheKeyPrefix = "orderlens_report_countries_"

// orderColumns whitelists sortable columns of the grouped result. User
// input never reaches the ORDER BY clause directly.
var orderColumns = map[string]string{
	"orders_count":  "orders_count",
	"net_total":     "net_total",
	"order_country": "order_country",
}

// normalizedQuery is the fully-defaulted form of a Query. Its JSON
// encoding is the cache fingerprint, so every field must be stable.
type normalizedQuery struct {
	PerPage         int       `json:"per_page"`
	Page            int       `json:"page"`
	Order           string    `json:"order"`
	OrderBy         string    `json:"orderby"`
	After           time.Time `json:"after"`
	Before          time.Time `json:"before"`
	CustomerType    string    `json:"customer_type"`
	StatusIs        []string  `json:"status_is"`
	StatusIsNot     []string  `json:"status_is_not"`
	ProductIncludes []int64   `json:"product_includes"`
	ProductExcludes []int64   `json:"product_excludes"`
	CouponIncludes  []int64   `json:"coupon_includes"`
	CouponExcludes  []int64   `json:"coupon_excludes"`
	ExtendedInfo    bool      `json:"extended_info"`
}

func (s *Service) normalize(query domain.Query) normalizedQuery {
	n := normalizedQuery{
		Page:            query.Page,
		CustomerType:    strings.ToLower(strings.TrimSpace(query.CustomerType)),
		StatusIs:        normalizeStatuses(query.StatusIs),
		StatusIsNot:     normalizeStatuses(query.StatusIsNot),
		ProductIncludes: sortedIDs(query.ProductIncludes),
		ProductExcludes: sortedIDs(query.ProductExcludes),
		CouponIncludes:  sortedIDs(query.CouponIncludes),
		CouponExcludes:  sortedIDs(query.CouponExcludes),
		ExtendedInfo:    query.ExtendedInfo,
	}

	if query.PerPage != nil && *query.PerPage >= 0 {
		n.PerPage = *query.PerPage
	} else {
		n.PerPage = s.cfg.DefaultPerPage
	}
	if n.Page < 1 {
		n.Page = 1
	}

	if query.After != nil {
		n.After = query.After.UTC()
	}
	if query.Before != nil {
		n.Before = query.Before.UTC()
	}

	if column, ok := orderColumns[strings.ToLower(strings.TrimSpace(query.OrderBy))]; ok {
		n.OrderBy = column
	} else {
		n.OrderBy = "orders_count"
	}
	if strings.EqualFold(strings.TrimSpace(query.Order), "asc") {
		n.Order = "asc"
	} else {
		n.Order = "desc"
	}

	// Supplying either explicit status list disables the default deny-list.
	if len(n.StatusIs) == 0 && len(n.StatusIsNot) == 0 {
		n.StatusIsNot = normalizeStatuses(domain.DefaultExcludedStatuses)
	}

	return n
}

func (n normalizedQuery) fingerprint() string {
	payload, err := json.Marshal(n)
	if err != nil {
		// The struct is always marshalable; keep a defined key anyway.
		payload = []byte(fmt.Sprintf("%+v", n))
	}
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (n normalizedQuery) orderClause() string {
	return n.OrderBy + " " + n.Order
}

func (n normalizedQuery) hasProductFilter() bool {
	return len(n.ProductIncludes) > 0 || len(n.ProductExcludes) > 0
}

func (n normalizedQuery) hasCouponFilter() bool {
	return len(n.CouponIncludes) > 0 || len(n.CouponExcludes) > 0
}

func normalizeStatuses(statuses []string) []string {
	if len(statuses) == 0 {
		return nil
	}
	out := make([]string, 0, len(statuses))
	for _, status := range statuses {
		trimmed := strings.TrimSpace(status)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, lookupdomain.StatusPrefix) {
			trimmed = lookupdomain.NormalizeStatus(trimmed)
		}
		out = append(out, trimmed)
	}
	sort.Strings(out)
	return out
}

func sortedIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
