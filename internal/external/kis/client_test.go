package kis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpilot/pkg/config"
	"github.com/wonny/stockpilot/pkg/httputil"
	"github.com/wonny/stockpilot/pkg/logger"
)

func newTestServer(t *testing.T, tokenCalls *int64, quote map[string]string, rtCd string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/tokenP", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(tokenCalls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   86400,
		})
	})
	mux.HandleFunc("/uapi/domestic-stock/v1/quotations/inquire-price", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("tr_id") != "FHKST01010100" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": quote,
			"rt_cd":  rtCd,
			"msg_cd": "MCA00000",
			"msg1":   "정상처리",
		})
	})

	return httptest.NewServer(mux)
}

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{Env: "development", LogLevel: "error"}
	log := logger.NewNop()
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(config.KISConfig{
		AppKey:    "key",
		AppSecret: "secret",
		BaseURL:   baseURL,
		RateLimit: 100,
	}, httpClient, log)
}

func TestGetQuote(t *testing.T) {
	var tokenCalls int64
	srv := newTestServer(t, &tokenCalls, map[string]string{
		"hts_kor_isnm": "삼성전자",
		"stck_prpr":    "72500",
		"stck_sdpr":    "72000",
		"hts_avls":     "4329021",
		"per":          "13.55",
		"pbr":          "1.32",
		"eps":          "5350",
		"dvyd":         "2.01",
		"w52_hgpr":     "88000",
		"w52_lwpr":     "65000",
	}, "0")
	defer srv.Close()

	client := newTestClient(srv.URL)

	quote, err := client.GetQuote(context.Background(), "005930")
	require.NoError(t, err)

	assert.Equal(t, "005930", quote.StockCode)
	assert.Equal(t, "삼성전자", quote.Name)
	require.NotNil(t, quote.CurrentPrice)
	assert.Equal(t, 72500.0, *quote.CurrentPrice)
	require.NotNil(t, quote.PreviousClose)
	assert.Equal(t, 72000.0, *quote.PreviousClose)
	require.NotNil(t, quote.MarketCap)
	assert.Equal(t, 4329021.0*1e8, *quote.MarketCap)
	require.NotNil(t, quote.PER)
	assert.Equal(t, 13.55, *quote.PER)
	require.NotNil(t, quote.Week52Low)
	assert.Equal(t, 65000.0, *quote.Week52Low)
}

func TestGetQuoteTokenReuse(t *testing.T) {
	var tokenCalls int64
	srv := newTestServer(t, &tokenCalls, map[string]string{
		"stck_prpr": "1000",
	}, "0")
	defer srv.Close()

	client := newTestClient(srv.URL)

	for i := 0; i < 3; i++ {
		_, err := client.GetQuote(context.Background(), "005930")
		require.NoError(t, err)
	}

	// Token is requested once and reused until expiry
	assert.Equal(t, int64(1), atomic.LoadInt64(&tokenCalls))
}

func TestGetQuoteAPIError(t *testing.T) {
	var tokenCalls int64
	srv := newTestServer(t, &tokenCalls, map[string]string{}, "1")
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.GetQuote(context.Background(), "000000")
	assert.Error(t, err)
}

func TestParsePositive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{"plain number", "72500", floatPtr(72500)},
		{"with comma", "1,234.5", floatPtr(1234.5)},
		{"empty", "", nil},
		{"zero means missing", "0", nil},
		{"negative means missing", "-5", nil},
		{"garbage", "N/A", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePositive(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func floatPtr(v float64) *float64 { return &v }
