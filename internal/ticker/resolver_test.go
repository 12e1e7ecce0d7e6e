package ticker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/pkg/logger"
)

type stubSearcher struct {
	symbol string
	err    error
	calls  int
}

func (s *stubSearcher) Search(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.symbol, s.err
}

func newTestMaster() *Master {
	m := NewMaster(nil, logger.NewNop())
	m.put("삼성전자", "005930.KS")
	m.put("에코프로", "086520.KQ")
	return m
}

func TestResolveTickerShapedInput(t *testing.T) {
	r := NewResolver(newTestMaster(), &stubSearcher{}, logger.NewNop())

	tests := []struct {
		query  string
		symbol string
		market quote.Market
	}{
		{"AAPL", "AAPL", quote.MarketGeneral},
		{"aapl", "AAPL", quote.MarketGeneral},
		{"  nvda  ", "NVDA", quote.MarketGeneral},
		{"005930.KS", "005930.KS", quote.MarketDomestic},
		{"086520.kq", "086520.KQ", quote.MarketDomestic},
		{"BRK-B-LONG1", "BRK-B-LONG1", quote.MarketGeneral}, // not ticker-shaped, falls through
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			id, err := r.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.symbol, id.Symbol)
			assert.Equal(t, tt.market, id.Market)
		})
	}
}

func TestResolveTickerShapedSkipsSearch(t *testing.T) {
	search := &stubSearcher{symbol: "WRONG"}
	r := NewResolver(newTestMaster(), search, logger.NewNop())

	id, err := r.Resolve(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", id.Symbol)
	assert.Zero(t, search.calls)
}

func TestResolveKoreanNameViaMaster(t *testing.T) {
	search := &stubSearcher{err: ErrNoMatch}
	r := NewResolver(newTestMaster(), search, logger.NewNop())

	id, err := r.Resolve(context.Background(), "삼성전자")
	require.NoError(t, err)
	assert.Equal(t, "005930.KS", id.Symbol)
	assert.Equal(t, quote.MarketDomestic, id.Market)
	assert.Zero(t, search.calls, "master hit must not reach the searcher")
}

func TestResolveSubstringMatch(t *testing.T) {
	r := NewResolver(newTestMaster(), &stubSearcher{err: ErrNoMatch}, logger.NewNop())

	id, err := r.Resolve(context.Background(), "에코프로")
	require.NoError(t, err)
	assert.Equal(t, "086520.KQ", id.Symbol)
}

func TestResolveNameViaSearch(t *testing.T) {
	search := &stubSearcher{symbol: "NVDA"}
	r := NewResolver(newTestMaster(), search, logger.NewNop())

	id, err := r.Resolve(context.Background(), "엔비디아")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", id.Symbol)
	assert.Equal(t, quote.MarketGeneral, id.Market)
	assert.Equal(t, 1, search.calls)
}

func TestResolveSearchMissFallsBackToRawQuery(t *testing.T) {
	search := &stubSearcher{err: ErrNoMatch}
	r := NewResolver(newTestMaster(), search, logger.NewNop())

	id, err := r.Resolve(context.Background(), "some unknown company")
	require.NoError(t, err)
	assert.Equal(t, "SOME UNKNOWN COMPANY", id.Symbol)
}

func TestResolveSearchErrorFallsBackToRawQuery(t *testing.T) {
	search := &stubSearcher{err: errors.New("upstream 500")}
	r := NewResolver(newTestMaster(), search, logger.NewNop())

	id, err := r.Resolve(context.Background(), "flaky name")
	require.NoError(t, err)
	assert.Equal(t, "FLAKY NAME", id.Symbol)
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver(newTestMaster(), &stubSearcher{}, logger.NewNop())

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := r.Resolve(context.Background(), q)

		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr, "query %q", q)
	}
}

func TestResolveNilCollaborators(t *testing.T) {
	r := NewResolver(nil, nil, logger.NewNop())

	id, err := r.Resolve(context.Background(), "현대차")
	require.NoError(t, err)
	assert.Equal(t, "현대차", id.Symbol)
}
