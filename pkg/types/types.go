package types

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ReturnRow 单期收益率记录 (一行对应一个交易期)
type ReturnRow struct {
	Date    time.Time
	Returns []float64
}

// ReturnSeries 收益率序列 (列固定, 按日期升序)
type ReturnSeries struct {
	Assets []string
	Rows   []ReturnRow
}

// NewReturnSeries 创建收益率序列
func NewReturnSeries(assets []string, rows []ReturnRow) *ReturnSeries {
	return &ReturnSeries{
		Assets: assets,
		Rows:   rows,
	}
}

// NumAssets 资产数量
func (s *ReturnSeries) NumAssets() int {
	return len(s.Assets)
}

// NumPeriods 交易期数量
func (s *ReturnSeries) NumPeriods() int {
	return len(s.Rows)
}

// Dates 全部交易日期 (按原始顺序)
func (s *ReturnSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Rows))
	for i, row := range s.Rows {
		dates[i] = row.Date
	}
	return dates
}

// Validate 校验收益率序列, 模拟开始前必须通过
func (s *ReturnSeries) Validate() error {
	if len(s.Assets) == 0 {
		return fmt.Errorf("no asset columns")
	}
	if len(s.Rows) == 0 {
		return fmt.Errorf("empty return history")
	}

	for i, row := range s.Rows {
		if len(row.Returns) != len(s.Assets) {
			return fmt.Errorf("row %d: expected %d returns, got %d", i, len(s.Assets), len(row.Returns))
		}

		// 日期必须严格递增
		if i > 0 && !s.Rows[i-1].Date.Before(row.Date) {
			return fmt.Errorf("row %d: date %s is not after %s",
				i, row.Date.Format("2006-01-02"), s.Rows[i-1].Date.Format("2006-01-02"))
		}

		for j, r := range row.Returns {
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return fmt.Errorf("row %d: invalid return value for %s: %v", i, s.Assets[j], r)
			}
		}
	}

	return nil
}

// SimulationParams 再平衡模拟参数
type SimulationParams struct {
	FeeRate         float64 `json:"fee_rate"`         // 单边费率 (小数)
	RebalancePeriod int     `json:"rebalance_period"` // 再平衡回目标权重的间隔期数
	Hurdle          float64 `json:"hurdle"`           // 单期收益目标
}

// Validate 校验模拟参数
func (p SimulationParams) Validate() error {
	if p.FeeRate < 0 || p.FeeRate >= 1 {
		return fmt.Errorf("fee rate must be in [0, 1), got %v", p.FeeRate)
	}
	if p.RebalancePeriod < 1 {
		return fmt.Errorf("rebalance period must be positive, got %d", p.RebalancePeriod)
	}
	return nil
}

// PeriodRecord 单期模拟结果
type PeriodRecord struct {
	Date   time.Time
	Values []float64 // 期末各资产市值
	Total  float64   // 期末总市值
	Return float64   // 当期组合收益率
	Hurdle float64   // 当期收益目标
}

// IterationRecord 单次自助法迭代结果
type IterationRecord struct {
	Weights   []float64 // 最优目标权重 (小数)
	Frequency float64   // 跑赢频率 (%)
}

// IterationTable 全部自助法迭代结果
type IterationTable struct {
	Assets  []string
	Records []IterationRecord
}

// Frequencies 各迭代的跑赢频率
func (t *IterationTable) Frequencies() []float64 {
	freqs := make([]float64, len(t.Records))
	for i, rec := range t.Records {
		freqs[i] = rec.Frequency
	}
	return freqs
}

// Allocation 最终资产配置 (百分比权重)
type Allocation struct {
	Assets  []string
	Weights []float64
}

// Weight 查询单个资产的权重
func (a *Allocation) Weight(asset string) (float64, bool) {
	for i, name := range a.Assets {
		if name == asset {
			return a.Weights[i], true
		}
	}
	return 0, false
}

// Sum 权重合计 (%)
func (a *Allocation) Sum() float64 {
	return floats.Sum(a.Weights)
}
