package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/orderlens/internal/leaderboard/domain"
	reportsdomain "github.com/smallbiznis/orderlens/internal/reports/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reportsStub struct {
	result reportsdomain.Result
	err    error
	calls  []reportsdomain.Query
}

func (s *reportsStub) GetData(_ context.Context, query reportsdomain.Query) (reportsdomain.Result, error) {
	s.calls = append(s.calls, query)
	return s.result, s.err
}

func TestFormatterCountryName(t *testing.T) {
	f := NewFormatter("en", "USD")

	assert.Equal(t, "United States", f.CountryName("US"))
	assert.Equal(t, "Germany", f.CountryName("DE"))
	assert.Equal(t, "", f.CountryName(""))
	assert.Equal(t, "ZZZZ", f.CountryName("ZZZZ"))
}

func TestFormatterFallsBackOnBadConfig(t *testing.T) {
	f := NewFormatter("not a locale", "not a currency")

	assert.Equal(t, "United States", f.CountryName("US"))
	assert.Contains(t, f.Amount(1), "$")
}

func TestFormatterNumbers(t *testing.T) {
	f := NewFormatter("en", "USD")

	assert.Equal(t, "1,234", f.Count(1234))
	amount := f.Amount(1234.5)
	assert.Contains(t, amount, "$")
	assert.Contains(t, amount, "1,234.50")
}

func TestCountriesProviderBuildsBoard(t *testing.T) {
	stub := &reportsStub{result: reportsdomain.Result{
		Data: []reportsdomain.Row{
			{OrderCountry: "US", OrdersCount: 1500, NetTotal: 2499.5},
			{OrderCountry: "DE", OrdersCount: 3, NetTotal: 10},
		},
	}}
	provider := NewCountriesProvider(stub, NewFormatter("en", "USD"), zap.NewNop())

	boards := provider.Apply(context.Background(), nil, domain.Request{PerPage: 5})

	require.Len(t, boards, 1)
	board := boards[0]
	assert.Equal(t, BoardIDCountries, board.ID)
	require.Len(t, board.Headers, 3)
	require.Len(t, board.Rows, 2)

	row := board.Rows[0]
	require.Len(t, row, 3)
	assert.Equal(t, "United States", row[0].Display)
	assert.Equal(t, "US", row[0].Value)
	assert.Equal(t, "1,500", row[1].Display)
	assert.Equal(t, int64(1500), row[1].Value)
	assert.Contains(t, row[2].Display, "2,499.50")

	require.Len(t, stub.calls, 1)
	query := stub.calls[0]
	require.NotNil(t, query.PerPage)
	assert.Equal(t, 5, *query.PerPage)
	assert.Equal(t, "orders_count", query.OrderBy)
	assert.Equal(t, "desc", query.Order)
	assert.False(t, query.ExtendedInfo)
}

func TestCountriesProviderZeroPerPageSkipsQuery(t *testing.T) {
	stub := &reportsStub{}
	provider := NewCountriesProvider(stub, NewFormatter("en", "USD"), zap.NewNop())

	boards := provider.Apply(context.Background(), nil, domain.Request{PerPage: 0})

	require.Len(t, boards, 1)
	assert.Empty(t, boards[0].Rows)
	assert.Empty(t, stub.calls)
}

func TestCountriesProviderMissingDepsPassesThrough(t *testing.T) {
	provider := NewCountriesProvider(nil, nil, nil)
	existing := []domain.Leaderboard{{ID: "other"}}

	boards := provider.Apply(context.Background(), existing, domain.Request{PerPage: 5})

	assert.Equal(t, existing, boards)
}

func TestCountriesProviderPassesWindow(t *testing.T) {
	stub := &reportsStub{}
	provider := NewCountriesProvider(stub, NewFormatter("en", "USD"), zap.NewNop())

	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	provider.Apply(context.Background(), nil, domain.Request{PerPage: 3, After: &after, Before: &before})

	require.Len(t, stub.calls, 1)
	assert.Equal(t, &after, stub.calls[0].After)
	assert.Equal(t, &before, stub.calls[0].Before)
}

func TestRegistryComposesInOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(providerFunc(func(_ context.Context, boards []domain.Leaderboard, _ domain.Request) []domain.Leaderboard {
		return append(boards, domain.Leaderboard{ID: "first"})
	}))
	registry.Register(providerFunc(func(_ context.Context, boards []domain.Leaderboard, _ domain.Request) []domain.Leaderboard {
		return append(boards, domain.Leaderboard{ID: "second"})
	}))
	registry.Register(nil)

	boards := registry.Apply(context.Background(), domain.Request{PerPage: 5})

	require.Len(t, boards, 2)
	assert.Equal(t, "first", boards[0].ID)
	assert.Equal(t, "second", boards[1].ID)
}

type providerFunc func(context.Context, []domain.Leaderboard, domain.Request) []domain.Leaderboard

func (f providerFunc) Apply(ctx context.Context, boards []domain.Leaderboard, req domain.Request) []domain.Leaderboard {
	return f(ctx, boards, req)
}
