package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/httputil"
	"github.com/wonny/stockpilot/pkg/logger"
)

// Client handles communication with KIS (한국투자증권) Open API
// ⭐ SSOT: KIS API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.KISConfig
	limiter    *rate.Limiter

	// Token management
	accessToken string
	tokenExpiry time.Time
	tokenMu     sync.RWMutex
}

// NewClient creates a new KIS API client
func NewClient(cfg config.KISConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// TokenResponse represents the OAuth token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// getToken gets a valid access token, refreshing if necessary
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.tokenMu.RLock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		token := c.accessToken
		c.tokenMu.RUnlock()
		return token, nil
	}
	c.tokenMu.RUnlock()

	// Need to refresh token
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	// Double-check after acquiring write lock
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	// Request new token
	url := fmt.Sprintf("%s/oauth2/tokenP", c.cfg.BaseURL)
	payload := map[string]string{
		"grant_type": "client_credentials",
		"appkey":     strings.TrimSpace(c.cfg.AppKey),
		"appsecret":  strings.TrimSpace(c.cfg.AppSecret),
	}

	resp, err := c.httpClient.PostJSON(ctx, url, payload)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response carries no access_token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second) // 1분 여유

	c.logger.WithFields(map[string]interface{}{
		"expires_in": tokenResp.ExpiresIn,
	}).Info("KIS access token refreshed")

	return c.accessToken, nil
}

// request makes an authenticated request to KIS API
func (c *Client) request(ctx context.Context, method, path string, trID string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Set required headers
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)

	return c.httpClient.Do(req)
}

// Quote is the parsed current-price snapshot for one stock code.
// 누락된 필드는 nil로 남음
type Quote struct {
	StockCode     string
	Name          string
	CurrentPrice  *float64
	PreviousClose *float64
	MarketCap     *float64 // in KRW (hts_avls is served in 100M KRW units)
	PER           *float64
	PBR           *float64
	EPS           *float64
	DividendYield *float64
	Week52High    *float64
	Week52Low     *float64
	FetchedAt     time.Time
}

// quoteOutput mirrors the inquire-price payload. KIS serves every
// numeric field as a string.
type quoteOutput struct {
	Name          string `json:"hts_kor_isnm"`
	CurrentPrice  string `json:"stck_prpr"`
	PreviousClose string `json:"stck_sdpr"` // 기준가 = 전일 종가
	MarketCap     string `json:"hts_avls"`
	PER           string `json:"per"`
	PBR           string `json:"pbr"`
	EPS           string `json:"eps"`
	DividendYield string `json:"dvyd"`
	Week52High    string `json:"w52_hgpr"`
	Week52Low     string `json:"w52_lwpr"`
}

// GetQuote gets the current price and valuation snapshot for a stock
func (c *Client) GetQuote(ctx context.Context, stockCode string) (*Quote, error) {
	path := "/uapi/domestic-stock/v1/quotations/inquire-price"
	trID := "FHKST01010100" // 국내주식 현재가

	params := fmt.Sprintf("?fid_cond_mrkt_div_code=J&fid_input_iscd=%s", stockCode)

	resp, err := c.request(ctx, http.MethodGet, path+params, trID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Output quoteOutput `json:"output"`
		RtCd   string      `json:"rt_cd"`
		MsgCd  string      `json:"msg_cd"`
		Msg1   string      `json:"msg1"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.RtCd != "0" {
		return nil, fmt.Errorf("API error: %s - %s", result.MsgCd, result.Msg1)
	}

	quote := &Quote{
		StockCode:     stockCode,
		Name:          result.Output.Name,
		CurrentPrice:  parsePositive(result.Output.CurrentPrice),
		PreviousClose: parsePositive(result.Output.PreviousClose),
		PER:           parsePositive(result.Output.PER),
		PBR:           parsePositive(result.Output.PBR),
		EPS:           parsePositive(result.Output.EPS),
		DividendYield: parsePositive(result.Output.DividendYield),
		Week52High:    parsePositive(result.Output.Week52High),
		Week52Low:     parsePositive(result.Output.Week52Low),
		FetchedAt:     time.Now(),
	}

	// hts_avls is reported in 억원
	if v := parsePositive(result.Output.MarketCap); v != nil {
		cap := *v * 1e8
		quote.MarketCap = &cap
	}

	return quote, nil
}

// parsePositive parses a KIS numeric string; empty, malformed or
// non-positive values become nil rather than a fabricated zero.
func parsePositive(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}

	return &v
}
