package portfolio

import (
	"gonum.org/v1/gonum/floats"

	"github.com/opsxjacky/strategic-allocation/internal/cost"
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// InitialValue 模拟起始总市值
const InitialValue = 100.0

// Simulator 再平衡模拟器, 在完整收益率序列上模拟一个目标权重组合
type Simulator struct {
	params types.SimulationParams
	model  cost.Model
}

// NewSimulator 创建再平衡模拟器
func NewSimulator(params types.SimulationParams, model cost.Model) *Simulator {
	return &Simulator{
		params: params,
		model:  model,
	}
}

// Run 按时间顺序模拟整个序列。每逢再平衡期 ((期数+1) 能被周期整除)
// 交易回目标权重, 其余期按当前漂移后的权重持有 (零成交, 纯复利)。
// 输入长度不匹配属于调用方契约错误, 不在此处检查。
func (s *Simulator) Run(series *types.ReturnSeries, target []float64) []types.PeriodRecord {
	n := series.NumAssets()
	totalIn := InitialValue
	wIn := make([]float64, n)
	copy(wIn, target)

	records := make([]types.PeriodRecord, 0, series.NumPeriods())
	for i, row := range series.Rows {
		var values []float64
		if (i+1)%s.params.RebalancePeriod == 0 {
			values = Step(totalIn, wIn, target, row.Returns, s.model)
		} else {
			// 非再平衡期: 目标即当前权重, 零成交零费用
			values = Step(totalIn, wIn, wIn, row.Returns, s.model)
		}

		totalOut := floats.Sum(values)
		records = append(records, types.PeriodRecord{
			Date:   row.Date,
			Values: values,
			Total:  totalOut,
			Return: totalOut/totalIn - 1,
			Hurdle: s.params.Hurdle,
		})

		// 期末市值推导下一期的期初权重
		for j := range wIn {
			wIn[j] = values[j] / totalOut
		}
		totalIn = totalOut
	}

	return records
}
