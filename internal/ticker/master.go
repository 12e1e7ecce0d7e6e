package ticker

import (
	"context"
	"strings"
	"sync"

	"github.com/wonny/stockpilot/internal/external/krx"
	"github.com/wonny/stockpilot/pkg/logger"
)

// Master is the in-memory listed-company master for the domestic market.
// It maps Korean company names to suffixed tickers and back.
// ⭐ SSOT: 국내 종목명 ↔ 티커 매핑은 이 구조체에서만
type Master struct {
	mu           sync.RWMutex
	nameToTicker map[string]string // 종목명(대문자) → 005930.KS
	tickerToName map[string]string // 005930.KS → 종목명

	client *krx.Client
	logger *logger.Logger
}

// NewMaster creates an empty master. Call Load before first use;
// lookups on an unloaded master simply miss.
func NewMaster(client *krx.Client, log *logger.Logger) *Master {
	return &Master{
		nameToTicker: make(map[string]string),
		tickerToName: make(map[string]string),
		client:       client,
		logger:       log,
	}
}

// Load fetches the KRX listing master and replaces both maps wholesale.
// Safe to call concurrently with lookups; also serves as the reload hook
// for the daily refresh job.
func (m *Master) Load(ctx context.Context) error {
	listings, err := m.client.FetchListings(ctx)
	if err != nil {
		return err
	}

	nameToTicker := make(map[string]string, len(listings))
	tickerToName := make(map[string]string, len(listings))

	for _, l := range listings {
		if l.Market != "KOSPI" && l.Market != "KOSDAQ" {
			continue
		}
		symbol := l.Symbol()
		nameToTicker[strings.ToUpper(l.KoreanName)] = symbol
		tickerToName[symbol] = l.KoreanName
	}

	m.mu.Lock()
	m.nameToTicker = nameToTicker
	m.tickerToName = tickerToName
	m.mu.Unlock()

	m.logger.WithField("count", len(tickerToName)).Info("Ticker master loaded")

	return nil
}

// Lookup resolves a company name to its ticker. Exact match first,
// then the first substring match.
func (m *Master) Lookup(name string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if ticker, ok := m.nameToTicker[key]; ok {
		return ticker, true
	}
	for candidate, ticker := range m.nameToTicker {
		if strings.Contains(candidate, key) {
			return ticker, true
		}
	}

	return "", false
}

// KoreanName returns the listed Korean name for a suffixed ticker.
func (m *Master) KoreanName(symbol string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name, ok := m.tickerToName[symbol]
	return name, ok
}

// Size returns the number of loaded listings.
func (m *Master) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.tickerToName)
}

// put is a test hook for seeding entries without a network call.
func (m *Master) put(name, symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nameToTicker[strings.ToUpper(name)] = symbol
	m.tickerToName[symbol] = name
}
