package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stockpilot/pkg/logger"
)

func TestMasterLookup(t *testing.T) {
	m := NewMaster(nil, logger.NewNop())
	m.put("삼성전자", "005930.KS")
	m.put("삼성전자우", "005935.KS")

	ticker, ok := m.Lookup("삼성전자")
	assert.True(t, ok)
	assert.Equal(t, "005930.KS", ticker)

	// Exact match wins over substring candidates
	ticker, ok = m.Lookup("삼성전자우")
	assert.True(t, ok)
	assert.Equal(t, "005935.KS", ticker)

	_, ok = m.Lookup("존재하지않는회사")
	assert.False(t, ok)

	_, ok = m.Lookup("  ")
	assert.False(t, ok)
}

func TestMasterKoreanName(t *testing.T) {
	m := NewMaster(nil, logger.NewNop())
	m.put("에코프로", "086520.KQ")

	name, ok := m.KoreanName("086520.KQ")
	assert.True(t, ok)
	assert.Equal(t, "에코프로", name)

	_, ok = m.KoreanName("AAPL")
	assert.False(t, ok)

	assert.Equal(t, 1, m.Size())
}
