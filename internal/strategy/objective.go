package strategy

import (
	"github.com/opsxjacky/strategic-allocation/internal/cost"
	"github.com/opsxjacky/strategic-allocation/internal/portfolio"
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// Objective 候选权重的目标函数值: 跑赢频率取负, 转换为最小化问题。
// 纯函数, 不保留任何状态。
func Objective(target []float64, series *types.ReturnSeries, params types.SimulationParams, model cost.Model) float64 {
	records := portfolio.NewSimulator(params, model).Run(series, target)

	beat := 0
	for _, rec := range records {
		if rec.Return > rec.Hurdle {
			beat++
		}
	}
	return -float64(beat) / float64(len(records))
}
