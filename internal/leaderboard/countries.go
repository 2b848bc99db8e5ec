package leaderboard

import (
	"context"

	"github.com/smallbiznis/orderlens/internal/leaderboard/domain"
	reportsdomain "github.com/smallbiznis/orderlens/internal/reports/domain"
	"go.uber.org/zap"
)

const (
	BoardIDCountries = "countries"

	countriesLabel     = "Top Countries - Total Sales"
	headerCountryLabel = "Country"
	headerOrdersLabel  = "Orders"
	headerSalesLabel   = "Total Sales"
)

// CountriesProvider appends the top-countries board, ranked by order count
// over the requested window.
type CountriesProvider struct {
	reports   reportsdomain.Service
	formatter *Formatter
	log       *zap.Logger
}

func NewCountriesProvider(reports reportsdomain.Service, formatter *Formatter, log *zap.Logger) *CountriesProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &CountriesProvider{
		reports:   reports,
		formatter: formatter,
		log:       log.Named("leaderboard.countries"),
	}
}

func (p *CountriesProvider) Apply(ctx context.Context, boards []domain.Leaderboard, req domain.Request) []domain.Leaderboard {
	// A partially wired dashboard gets the other boards, not an error.
	if p.reports == nil || p.formatter == nil {
		return boards
	}

	board := domain.Leaderboard{
		ID:    BoardIDCountries,
		Label: countriesLabel,
		Headers: []domain.Header{
			{Label: headerCountryLabel},
			{Label: headerOrdersLabel},
			{Label: headerSalesLabel},
		},
		Rows: [][]domain.Cell{},
	}

	if req.PerPage <= 0 {
		return append(boards, board)
	}

	perPage := req.PerPage
	result, err := p.reports.GetData(ctx, reportsdomain.Query{
		PerPage: &perPage,
		Page:    1,
		Order:   "desc",
		OrderBy: "orders_count",
		After:   req.After,
		Before:  req.Before,
	})
	if err != nil {
		p.log.Warn("countries board query failed", zap.Error(err))
		return append(boards, board)
	}

	for _, row := range result.Data {
		board.Rows = append(board.Rows, []domain.Cell{
			{Display: p.formatter.CountryName(row.OrderCountry), Value: row.OrderCountry},
			{Display: p.formatter.Count(row.OrdersCount), Value: row.OrdersCount},
			{Display: p.formatter.Amount(row.NetTotal), Value: row.NetTotal},
		})
	}

	return append(boards, board)
}
