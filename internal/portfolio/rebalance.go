package portfolio

import (
	"github.com/opsxjacky/strategic-allocation/internal/cost"
)

// Step 单期再平衡: 给定期初总市值, 期初权重, 目标权重和当期收益率,
// 返回期末各资产市值。费用在收益计入之前按成交权重收取; 权重不变时不产生费用。
func Step(totalIn float64, wIn, wTarget, returns []float64, model cost.Model) []float64 {
	out := make([]float64, len(wIn))
	for i := range wIn {
		delta := wTarget[i] - wIn[i]
		holding := wIn[i] + model.TradeValue(delta) - model.Brokerage(delta)
		out[i] = totalIn * holding * (1 + returns[i])
	}
	return out
}
