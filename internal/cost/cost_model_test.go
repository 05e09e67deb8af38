package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultModel(t *testing.T) {
	m := NewDefaultModel(0.003)

	t.Run("trade_value", func(t *testing.T) {
		assert.InDelta(t, 0.0997, m.TradeValue(0.1), 1e-12)
		assert.InDelta(t, -0.0997, m.TradeValue(-0.1), 1e-12)
		assert.Equal(t, 0.0, m.TradeValue(0))
	})

	t.Run("brokerage_charged_on_absolute_delta", func(t *testing.T) {
		assert.InDelta(t, 0.0003, m.Brokerage(0.1), 1e-12)
		assert.InDelta(t, 0.0003, m.Brokerage(-0.1), 1e-12)
		assert.Equal(t, 0.0, m.Brokerage(0))
	})
}

func TestZeroModel(t *testing.T) {
	m := NewZeroModel()

	assert.Equal(t, 0.25, m.TradeValue(0.25))
	assert.Equal(t, 0.0, m.Brokerage(0.25))
	assert.Equal(t, 0.0, m.Brokerage(-0.25))
}
