package quote

import (
	"context"
	"time"

	"github.com/wonny/stockpilot/pkg/logger"
)

// Selector picks which adapters to try for an identifier and walks them
// in order until one succeeds.
// ⭐ SSOT: 데이터 소스 선택과 폴백은 이 셀렉터에서만
type Selector struct {
	adapters []Adapter
	timeout  time.Duration
	logger   *logger.Logger
}

// NewSelector creates a selector with a per-adapter fetch timeout.
// Adapters are tried in registration order.
func NewSelector(timeout time.Duration, log *logger.Logger, adapters ...Adapter) *Selector {
	return &Selector{
		adapters: adapters,
		timeout:  timeout,
		logger:   log,
	}
}

// Register appends an adapter to the end of the chain. New markets plug
// in here without touching the fetch control flow.
func (s *Selector) Register(a Adapter) {
	s.adapters = append(s.adapters, a)
}

// Fetch tries every adapter supporting the identifier's market, in
// order. An adapter error means move on to the next candidate; the same
// adapter is never retried within one call. Only total exhaustion
// surfaces, as *NoProviderAvailable with the per-adapter causes.
func (s *Selector) Fetch(ctx context.Context, id Identifier) (*RawRecord, error) {
	attempts := make([]Attempt, 0, len(s.adapters))

	for _, adapter := range s.adapters {
		if !adapter.Supports(id.Market) {
			continue
		}

		attempt := Attempt{Adapter: adapter.Name(), Status: StatusTrying}

		record, err := s.fetchOne(ctx, adapter, id)
		if err != nil {
			attempt.Status = StatusFailed
			attempt.Err = err
			attempts = append(attempts, attempt)

			s.logger.WithError(err).WithFields(map[string]interface{}{
				"adapter": adapter.Name(),
				"symbol":  id.Symbol,
			}).Warn("Adapter fetch failed, trying next candidate")
			continue
		}

		attempt.Status = StatusSucceeded
		attempts = append(attempts, attempt)

		s.logger.WithFields(map[string]interface{}{
			"adapter":  adapter.Name(),
			"symbol":   id.Symbol,
			"failures": len(attempts) - 1,
		}).Info("Fetched raw record")

		return record, nil
	}

	return nil, &NoProviderAvailable{Symbol: id.Symbol, Attempts: attempts}
}

// fetchOne runs a single adapter under its own deadline. Exceeding the
// deadline counts as an adapter failure, not a pipeline failure.
func (s *Selector) fetchOne(ctx context.Context, adapter Adapter, id Identifier) (*RawRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return adapter.Fetch(fetchCtx, id)
}
