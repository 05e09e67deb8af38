package cost

import (
	"math"
)

// Model 费用模型接口 (权重空间)
type Model interface {
	// TradeValue 扣除费用后实际成交的权重变化
	TradeValue(delta float64) float64

	// Brokerage 交易产生的费用 (权重占比)
	Brokerage(delta float64) float64
}

// DefaultModel 默认双边比例费用模型, 按成交权重的绝对值收费
type DefaultModel struct {
	FeeRate float64 // 单边费率
}

// NewDefaultModel 创建默认费用模型
func NewDefaultModel(feeRate float64) *DefaultModel {
	return &DefaultModel{
		FeeRate: feeRate,
	}
}

// NewZeroModel 创建零费用模型 (用于测试)
func NewZeroModel() *DefaultModel {
	return &DefaultModel{
		FeeRate: 0,
	}
}

// TradeValue 扣费后的权重变化
func (m *DefaultModel) TradeValue(delta float64) float64 {
	return (1 - m.FeeRate) * delta
}

// Brokerage 交易费用, 买卖双向均按绝对值收取
func (m *DefaultModel) Brokerage(delta float64) float64 {
	return m.FeeRate * math.Abs(delta)
}
