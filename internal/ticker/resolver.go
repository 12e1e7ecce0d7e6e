// Package ticker turns free-form user queries into canonical identifiers.
package ticker

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wonny/stockpilot/internal/quote"
	"github.com/wonny/stockpilot/pkg/logger"
)

// tickerPattern matches identifier-shaped input: alphanumeric up to 10
// chars with an optional domestic market suffix.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}(\.KS|\.KQ)?$`)

// ResolutionError means the query could not be turned into an identifier.
// Only empty or whitespace input produces it.
type ResolutionError struct {
	Query string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve query %q: empty or whitespace input", e.Query)
}

// Searcher is the external name-to-symbol lookup. The resolver only needs
// the best match; implementations return an error satisfying
// errors.Is(err, ErrNoMatch) when nothing matches.
type Searcher interface {
	Search(ctx context.Context, query string) (symbol string, err error)
}

// ErrNoMatch is the sentinel Searcher implementations wrap when the query
// matches no symbol.
var ErrNoMatch = errors.New("no matching symbol")

// Resolver resolves queries using the domestic master first and a search
// collaborator second.
type Resolver struct {
	master   *Master
	searcher Searcher
	logger   *logger.Logger
}

// NewResolver creates a resolver. master may be nil when the domestic
// name cache is unavailable; searcher may be nil to disable lookup.
func NewResolver(master *Master, searcher Searcher, log *logger.Logger) *Resolver {
	return &Resolver{
		master:   master,
		searcher: searcher,
		logger:   log,
	}
}

// Resolve turns a free-form query into a canonical identifier.
//
// Identifier-shaped input is accepted as-is (upper-cased) without any
// lookup. Names go through the domestic master, then the search
// collaborator. When every lookup misses, the upper-cased query itself is
// returned and final validation is left to the provider stage.
func (r *Resolver) Resolve(ctx context.Context, query string) (quote.Identifier, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return quote.Identifier{}, &ResolutionError{Query: query}
	}

	upper := strings.ToUpper(trimmed)
	if tickerPattern.MatchString(upper) {
		return quote.Identifier{Symbol: upper, Market: quote.MarketOf(upper)}, nil
	}

	if r.master != nil {
		if symbol, ok := r.master.Lookup(trimmed); ok {
			return quote.Identifier{Symbol: symbol, Market: quote.MarketOf(symbol)}, nil
		}
	}

	if r.searcher != nil {
		symbol, err := r.searcher.Search(ctx, trimmed)
		if err == nil && symbol != "" {
			symbol = strings.ToUpper(symbol)
			return quote.Identifier{Symbol: symbol, Market: quote.MarketOf(symbol)}, nil
		}
		if err != nil && !errors.Is(err, ErrNoMatch) {
			r.logger.WithError(err).WithField("query", trimmed).Warn("Symbol search failed, falling back to raw query")
		}
	}

	// 마지막 수단: 쿼리 자체를 티커로 간주하고 provider 단계에 검증을 맡김
	return quote.Identifier{Symbol: upper, Market: quote.MarketOf(upper)}, nil
}
