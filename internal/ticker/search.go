package ticker

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/stockpilot/internal/external/yahoo"
)

// YahooSearcher adapts the Yahoo Finance search endpoint to the
// resolver's Searcher interface.
type YahooSearcher struct {
	client *yahoo.Client
}

// NewYahooSearcher creates a Yahoo-backed searcher
func NewYahooSearcher(client *yahoo.Client) *YahooSearcher {
	return &YahooSearcher{client: client}
}

// Search resolves a free-form query to the top matching symbol
func (s *YahooSearcher) Search(ctx context.Context, query string) (string, error) {
	result, err := s.client.Search(ctx, query)
	if err != nil {
		if errors.Is(err, yahoo.ErrNotFound) {
			return "", fmt.Errorf("%q: %w", query, ErrNoMatch)
		}
		return "", err
	}
	return result.Symbol, nil
}
