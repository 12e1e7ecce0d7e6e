package redis

import (
	"context"
	"testing"

	"github.com/wonny/stockpilot/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()

	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestCache_DisabledGet(t *testing.T) {
	cache := NewCache(disabledClient(t), "analysis")

	// When Redis is disabled, cache reads are misses
	var result string
	found, err := cache.Get(context.Background(), "AAPL", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}
}

func TestCache_DisabledSetDelete(t *testing.T) {
	cache := NewCache(disabledClient(t), "analysis")
	ctx := context.Background()

	// Writes and deletes are silent no-ops
	if err := cache.Set(ctx, "AAPL", map[string]string{"signal": "매수"}, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "AAPL"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestClose_Disabled(t *testing.T) {
	client := disabledClient(t)

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
