// Package krx fetches the listed-company master from the KRX data portal.
// The master feeds the ticker resolver's Korean name lookup.
package krx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/stockpilot/pkg/httputil"
	"github.com/wonny/stockpilot/pkg/logger"
)

const (
	dataURL = "http://data.krx.co.kr/comm/bldAttendant/getJsonData.cmd"

	// dbms/MDC/STAT/standard/MDCSTAT01901 = 상장종목 검색 (전종목 기본정보)
	listingBld = "dbms/MDC/STAT/standard/MDCSTAT01901"
)

// Client fetches listing data from the KRX data portal.
// ⭐ SSOT: KRX 상장종목 마스터 조회는 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new KRX listing client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    dataURL,
	}
}

// Listing is one listed company from the KRX master.
type Listing struct {
	StockCode   string // 단축코드 (6자리)
	KoreanName  string
	EnglishName string
	Market      string // KOSPI / KOSDAQ / KONEX
}

// Symbol returns the Yahoo-style suffixed ticker (.KS for KOSPI,
// .KQ for KOSDAQ and KONEX).
func (l Listing) Symbol() string {
	if l.Market == "KOSPI" {
		return l.StockCode + ".KS"
	}
	return l.StockCode + ".KQ"
}

type listingResponse struct {
	OutBlock1 []listingRow `json:"OutBlock_1"`
}

type listingRow struct {
	ISU_SRT_CD string `json:"ISU_SRT_CD"` // 종목코드 (단축)
	ISU_ABBRV  string `json:"ISU_ABBRV"`  // 종목명
	ISU_ENG_NM string `json:"ISU_ENG_NM"` // 영문 종목명
	MKT_TP_NM  string `json:"MKT_TP_NM"`  // 시장구분
}

// FetchListings fetches the full listed-company master (KOSPI + KOSDAQ + KONEX).
func (c *Client) FetchListings(ctx context.Context) ([]Listing, error) {
	formData := url.Values{
		"bld":         {listingBld},
		"locale":      {"ko_KR"},
		"mktsel":      {"ALL"},
		"typeNo":      {"0"},
		"share":       {"1"},
		"csvxls_isNo": {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Browser-like headers (KRX blocks bot requests)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Origin", "http://data.krx.co.kr")
	req.Header.Set("Referer", "http://data.krx.co.kr/contents/MDC/MDI/mdiLoader/index.cmd?menuId=MDC0201020101")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("KRX listing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("KRX listing status %d: %s", resp.StatusCode, string(body[:min(200, len(body))]))
	}

	var apiResp listingResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		preview := string(body)
		if len(preview) > 500 {
			preview = preview[:500]
		}
		c.logger.WithField("response_preview", preview).Error("Failed to parse KRX listing response")
		return nil, fmt.Errorf("decode KRX listing response: %w", err)
	}

	listings := make([]Listing, 0, len(apiResp.OutBlock1))
	for _, row := range apiResp.OutBlock1 {
		if row.ISU_SRT_CD == "" || row.ISU_ABBRV == "" {
			continue
		}
		listings = append(listings, Listing{
			StockCode:   row.ISU_SRT_CD,
			KoreanName:  strings.TrimSpace(row.ISU_ABBRV),
			EnglishName: strings.TrimSpace(row.ISU_ENG_NM),
			Market:      strings.TrimSpace(row.MKT_TP_NM),
		})
	}

	c.logger.WithField("count", len(listings)).Info("Fetched KRX listing master")

	return listings, nil
}
