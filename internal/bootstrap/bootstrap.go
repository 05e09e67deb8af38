package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/opsxjacky/strategic-allocation/internal/cost"
	"github.com/opsxjacky/strategic-allocation/internal/strategy"
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// Aggregator 自助法聚合器: 有放回重抽样收益率序列, 反复求解权重,
// 取跑赢频率不低于中位数的迭代做逐元素平均, 得到最终配置。
type Aggregator struct {
	Iterations int   // 迭代次数
	Workers    int   // 并发迭代数, <=0 时串行
	Seed       int64 // 随机种子, 0 表示取当前时间
	Params     types.SimulationParams
	Model      cost.Model
	Optimizer  *strategy.Optimizer
	Logger     zerolog.Logger
}

// Run 执行全部迭代并聚合最终配置。各迭代互相独立,
// 使用独立种子的生成器, 结果写入各自的预留槽位, 无共享可变状态。
func (a *Aggregator) Run(ctx context.Context, series *types.ReturnSeries) (*types.Allocation, *types.IterationTable, error) {
	if a.Iterations < 1 {
		return nil, nil, fmt.Errorf("iteration count must be positive, got %d", a.Iterations)
	}
	if a.Optimizer == nil {
		return nil, nil, fmt.Errorf("optimizer not set")
	}

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	seed := a.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	records := make([]types.IterationRecord, a.Iterations)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < a.Iterations; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(seed + int64(i)))
			rec, err := a.Optimizer.Optimize(Resample(series, rng), a.Params, a.Model)
			if err != nil {
				return fmt.Errorf("iteration %d: %w", i+1, err)
			}
			records[i] = rec

			a.Logger.Info().
				Int("iteration", i+1).
				Int("total", a.Iterations).
				Float64("frequency", rec.Frequency).
				Msg("bootstrap iteration complete")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	table := &types.IterationTable{
		Assets:  series.Assets,
		Records: records,
	}
	allocation, median := aggregate(table)

	a.Logger.Info().
		Float64("median_frequency", median).
		Float64("mean_frequency", stat.Mean(table.Frequencies(), nil)).
		Msg("bootstrap aggregation complete")
	return allocation, table, nil
}

// Resample 有放回均匀抽取行下标, 生成与原序列等长的新序列。
// 日期列保留原始时间顺序, 只有收益率行被重排, 模拟器的顺序语义不变。
func Resample(series *types.ReturnSeries, rng *rand.Rand) *types.ReturnSeries {
	n := series.NumPeriods()
	rows := make([]types.ReturnRow, n)
	for i := range rows {
		rows[i] = types.ReturnRow{
			Date:    series.Rows[i].Date,
			Returns: series.Rows[rng.Intn(n)].Returns,
		}
	}
	return types.NewReturnSeries(series.Assets, rows)
}

// aggregate 取跑赢频率 >= 中位数的迭代, 权重逐元素平均并换算为百分比。
// 同时返回使用的中位数频率。
func aggregate(table *types.IterationTable) (*types.Allocation, float64) {
	sorted := append([]float64(nil), table.Frequencies()...)
	sort.Float64s(sorted)
	median := quantile(0.5, sorted)

	n := len(table.Assets)
	mean := make([]float64, n)
	kept := 0
	for _, rec := range table.Records {
		if rec.Frequency >= median {
			for j, w := range rec.Weights {
				mean[j] += w
			}
			kept++
		}
	}
	// 最大频率必不小于中位数, kept >= 1
	for j := range mean {
		mean[j] = mean[j] / float64(kept) * 100
	}

	return &types.Allocation{
		Assets:  table.Assets,
		Weights: mean,
	}, median
}

// quantile 有序样本的线性插值分位数。
// gonum 的 LinInterp 累积量定义与此处需要的样本间插值不同。
func quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}
