package strategy

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/opsxjacky/strategic-allocation/internal/cost"
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// 罚项系数, 足以压制目标函数 (频率量级为 1)
const defaultPenaltyWeight = 1000.0

// Optimizer 权重搜索器: 在约束下最小化目标函数。
// 目标函数是权重的阶梯函数, 不可导, 因此使用无梯度的 Nelder-Mead
// 加约束罚项求解。不保证全局最优, 局部解由自助法聚合吸收。
type Optimizer struct {
	lower         []float64
	upper         []float64
	penaltyWeight float64
	logger        zerolog.Logger
}

// NewOptimizer 创建权重搜索器, 每个资产使用相同的上下界
func NewOptimizer(numAssets int, lower, upper float64, logger zerolog.Logger) *Optimizer {
	lo := make([]float64, numAssets)
	up := make([]float64, numAssets)
	for i := 0; i < numAssets; i++ {
		lo[i] = lower
		up[i] = upper
	}
	return &Optimizer{
		lower:         lo,
		upper:         up,
		penaltyWeight: defaultPenaltyWeight,
		logger:        logger,
	}
}

// Optimize 从等权重出发搜索最大化跑赢频率的目标权重。
// 未收敛但有可用候选点时按原样采用 (目标函数本身不光滑, 不视为错误)。
func (o *Optimizer) Optimize(series *types.ReturnSeries, params types.SimulationParams, model cost.Model) (types.IterationRecord, error) {
	n := series.NumAssets()
	if n != len(o.lower) {
		return types.IterationRecord{}, fmt.Errorf("optimizer built for %d assets, series has %d", len(o.lower), n)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			w := o.clamp(x)
			obj := Objective(w, series, params, model)
			return obj + penalty(Constraints(w, o.lower, o.upper), o.penaltyWeight)
		},
	}

	// 初始猜测: 等权重
	initial := make([]float64, n)
	for i := range initial {
		initial[i] = 1.0 / float64(n)
	}

	result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.NelderMead{})
	if err != nil {
		if result == nil {
			return types.IterationRecord{}, fmt.Errorf("weight search failed: %w", err)
		}
		o.logger.Warn().Err(err).Msg("weight search did not converge, using best point found")
	}

	// 收尾: 裁剪回上下界并归一化到和为 1
	w := o.clamp(result.X)
	sum := floats.Sum(w)
	if sum <= 0 {
		copy(w, initial)
	} else {
		floats.Scale(1/sum, w)
	}

	return types.IterationRecord{
		Weights:   w,
		Frequency: -Objective(w, series, params, model) * 100,
	}, nil
}

// clamp 将候选点逐元素裁剪到上下界内
func (o *Optimizer) clamp(x []float64) []float64 {
	w := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v < o.lower[i]:
			w[i] = o.lower[i]
		case v > o.upper[i]:
			w[i] = o.upper[i]
		default:
			w[i] = v
		}
	}
	return w
}
