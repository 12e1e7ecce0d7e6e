// Package yahoo implements a client for the Yahoo Finance JSON endpoints.
// It covers quoteSummary (fundamentals), symbol search, and news headlines.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/httputil"
	"github.com/wonny/stockpilot/pkg/logger"
)

// ErrNotFound is returned when a search query matches no symbols.
var ErrNotFound = errors.New("yahoo: no matching symbol")

// browserUA: Yahoo rejects default Go User-Agents with 429/401.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const quoteModules = "price,summaryDetail,financialData,defaultKeyStatistics,assetProfile"

// Client calls the Yahoo Finance v10/v1 JSON endpoints.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.YahooConfig
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient.WithUserAgent(browserUA),
		logger:     log,
		cfg:        cfg,
	}
}

// Quote holds the fundamentals of a single symbol. Fields Yahoo does not
// report for the symbol stay nil.
type Quote struct {
	Symbol            string
	Name              string
	Currency          string
	Sector            string
	Industry          string
	Summary           string
	CurrentPrice      *float64
	PreviousClose     *float64
	MarketCap         *float64
	TrailingPE        *float64
	PriceToBook       *float64
	EPS               *float64
	NetIncome         *float64
	SharesOutstanding *float64
	ROE               *float64
	DividendYield     *float64
	Beta              *float64
	Week52Low         *float64
	Week52High        *float64
	TargetMeanPrice   *float64
}

// rawValue is Yahoo's {"raw": 123.4, "fmt": "123.40"} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				Symbol             string    `json:"symbol"`
				ShortName          string    `json:"shortName"`
				LongName           string    `json:"longName"`
				Currency           string    `json:"currency"`
				RegularMarketPrice *rawValue `json:"regularMarketPrice"`
				MarketCap          *rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				PreviousClose   *rawValue `json:"previousClose"`
				TrailingPE      *rawValue `json:"trailingPE"`
				DividendYield   *rawValue `json:"dividendYield"`
				Beta            *rawValue `json:"beta"`
				FiftyTwoWeekLow *rawValue `json:"fiftyTwoWeekLow"`
				FiftyTwoWeekHi  *rawValue `json:"fiftyTwoWeekHigh"`
			} `json:"summaryDetail"`
			FinancialData struct {
				CurrentPrice    *rawValue `json:"currentPrice"`
				ReturnOnEquity  *rawValue `json:"returnOnEquity"`
				TargetMeanPrice *rawValue `json:"targetMeanPrice"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				TrailingEps       *rawValue `json:"trailingEps"`
				ForwardEps        *rawValue `json:"forwardEps"`
				PriceToBook       *rawValue `json:"priceToBook"`
				NetIncomeToCommon *rawValue `json:"netIncomeToCommon"`
				SharesOutstanding *rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			AssetProfile struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetQuote fetches fundamentals for a symbol via the quoteSummary endpoint.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.cfg.QuoteBaseURL, url.PathEscape(symbol), url.QueryEscape(quoteModules))

	var out quoteSummaryResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("yahoo quoteSummary: %w", err)
	}

	if e := out.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("yahoo quoteSummary error: %s (%s)", e.Description, e.Code)
	}
	if len(out.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quoteSummary: empty result for %s", symbol)
	}

	r := out.QuoteSummary.Result[0]

	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	// financialData currentPrice is fresher for equities; price module
	// regularMarketPrice covers the rest (ETFs, indices).
	price := rawOf(r.FinancialData.CurrentPrice)
	if price == nil {
		price = rawOf(r.Price.RegularMarketPrice)
	}

	eps := rawOf(r.DefaultKeyStatistics.TrailingEps)
	if eps == nil {
		eps = rawOf(r.DefaultKeyStatistics.ForwardEps)
	}

	q := &Quote{
		Symbol:            symbol,
		Name:              name,
		Currency:          r.Price.Currency,
		Sector:            r.AssetProfile.Sector,
		Industry:          r.AssetProfile.Industry,
		Summary:           r.AssetProfile.LongBusinessSummary,
		CurrentPrice:      price,
		PreviousClose:     rawOf(r.SummaryDetail.PreviousClose),
		MarketCap:         rawOf(r.Price.MarketCap),
		TrailingPE:        rawOf(r.SummaryDetail.TrailingPE),
		PriceToBook:       rawOf(r.DefaultKeyStatistics.PriceToBook),
		EPS:               eps,
		NetIncome:         rawOf(r.DefaultKeyStatistics.NetIncomeToCommon),
		SharesOutstanding: rawOf(r.DefaultKeyStatistics.SharesOutstanding),
		ROE:               rawOf(r.FinancialData.ReturnOnEquity),
		DividendYield:     rawOf(r.SummaryDetail.DividendYield),
		Beta:              rawOf(r.SummaryDetail.Beta),
		Week52Low:         rawOf(r.SummaryDetail.FiftyTwoWeekLow),
		Week52High:        rawOf(r.SummaryDetail.FiftyTwoWeekHi),
		TargetMeanPrice:   rawOf(r.FinancialData.TargetMeanPrice),
	}

	return q, nil
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		QuoteType string `json:"quoteType"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
	} `json:"news"`
}

// SearchResult is the best symbol match for a free-form query.
type SearchResult struct {
	Symbol string
	Name   string
}

// Search resolves a free-form query (company name, Korean name, partial
// ticker) to the best matching symbol. Returns ErrNotFound when Yahoo
// has no candidates.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	out, err := c.search(ctx, query, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(out.Quotes) == 0 {
		return nil, ErrNotFound
	}

	q := out.Quotes[0]
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}

	return &SearchResult{Symbol: q.Symbol, Name: name}, nil
}

// GetNews returns up to limit recent headlines for the symbol. Errors are
// returned as-is so callers can treat headlines as best-effort.
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]string, error) {
	out, err := c.search(ctx, symbol, 0, limit)
	if err != nil {
		return nil, err
	}

	headlines := make([]string, 0, limit)
	for _, n := range out.News {
		if n.Title == "" {
			continue
		}
		headlines = append(headlines, n.Title)
		if len(headlines) >= limit {
			break
		}
	}

	return headlines, nil
}

func (c *Client) search(ctx context.Context, query string, quotesCount, newsCount int) (*searchResponse, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=%d&newsCount=%d",
		c.cfg.SearchBaseURL, url.QueryEscape(query), quotesCount, newsCount)

	var out searchResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("yahoo search: %w", err)
	}

	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dest interface{}) error {
	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}

func rawOf(v *rawValue) *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}
