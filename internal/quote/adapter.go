package quote

import (
	"context"
	"fmt"
	"strings"
)

// Adapter is the capability interface every upstream vendor implements.
// Adapters translate one vendor's shape into a RawRecord; the Selector
// chooses which adapters to try and in what order.
type Adapter interface {
	// Name identifies the adapter in logs and failure reports
	Name() string

	// Supports reports whether the adapter can serve the market
	Supports(market Market) bool

	// Fetch retrieves a raw record for the identifier, or fails
	Fetch(ctx context.Context, id Identifier) (*RawRecord, error)
}

// AttemptStatus tracks one adapter through a single Fetch call
type AttemptStatus int

const (
	StatusNotTried AttemptStatus = iota
	StatusTrying
	StatusFailed
	StatusSucceeded
)

// String returns a readable status name
func (s AttemptStatus) String() string {
	switch s {
	case StatusTrying:
		return "trying"
	case StatusFailed:
		return "failed"
	case StatusSucceeded:
		return "succeeded"
	default:
		return "not_tried"
	}
}

// Attempt records the outcome of trying one adapter
type Attempt struct {
	Adapter string        `json:"adapter"`
	Status  AttemptStatus `json:"status"`
	Err     error         `json:"-"`
}

// Reason returns the failure cause as a string, empty when none
func (a Attempt) Reason() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

// NoProviderAvailable is the terminal error of the fetch stage: every
// candidate adapter failed. It carries the per-adapter causes.
type NoProviderAvailable struct {
	Symbol   string
	Attempts []Attempt
}

// Error implements the error interface
func (e *NoProviderAvailable) Error() string {
	reasons := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", a.Adapter, a.Err))
		}
	}
	return fmt.Sprintf("no provider available for %s (%s)", e.Symbol, strings.Join(reasons, "; "))
}

// Failures returns only the attempts that actually failed
func (e *NoProviderAvailable) Failures() []Attempt {
	failed := make([]Attempt, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Status == StatusFailed {
			failed = append(failed, a)
		}
	}
	return failed
}
