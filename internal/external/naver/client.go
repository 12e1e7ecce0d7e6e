// Package naver scrapes finance.naver.com for domestic stock fundamentals.
// It serves as a last-resort source when the KIS API is unavailable.
package naver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/httputil"
	"github.com/wonny/stockpilot/pkg/logger"
)

// Client scrapes the Naver Finance item page for a stock code.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.NaverConfig
}

// NewClient creates a new Naver Finance scraper
func NewClient(cfg config.NaverConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

// Quote holds the values scraped from the item page. Missing or
// unparseable cells stay nil.
type Quote struct {
	StockCode     string
	Name          string
	CurrentPrice  *float64
	PreviousClose *float64
	PER           *float64
	PBR           *float64
	EPS           *float64
	DividendYield *float64
}

// GetQuote scrapes finance.naver.com/item/main.naver?code={code}.
// 셀렉터는 페이지 마크업 변경 시 깨질 수 있음
func (c *Client) GetQuote(ctx context.Context, stockCode string) (*Quote, error) {
	u := fmt.Sprintf("%s/item/main.naver?code=%s", c.cfg.BaseURL, stockCode)

	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("naver page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("naver page parse: %w", err)
	}

	q := &Quote{
		StockCode:     stockCode,
		Name:          strings.TrimSpace(doc.Find(".wrap_company h2 a").First().Text()),
		CurrentPrice:  parseNumber(doc.Find(".no_today .blind").First().Text()),
		PreviousClose: parseNumber(doc.Find(".no_exday .blind").Eq(0).Text()),
		PER:           parseNumber(doc.Find("#_per").Text()),
		PBR:           parseNumber(doc.Find("#_pbr").Text()),
		EPS:           parseNumber(doc.Find("#_eps").Text()),
		DividendYield: parseNumber(doc.Find("#_dvr").Text()),
	}

	if q.Name == "" && q.CurrentPrice == nil {
		return nil, fmt.Errorf("naver page for %s carries no quote data", stockCode)
	}

	return q, nil
}

// parseNumber parses Naver's comma-separated numerics. Returns nil on
// missing, non-numeric, or non-positive values.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "N/A" || s == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}

	return &v
}
