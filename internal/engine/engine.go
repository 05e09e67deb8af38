package engine

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsxjacky/strategic-allocation/internal/bootstrap"
	"github.com/opsxjacky/strategic-allocation/internal/config"
	"github.com/opsxjacky/strategic-allocation/internal/cost"
	"github.com/opsxjacky/strategic-allocation/internal/data"
	"github.com/opsxjacky/strategic-allocation/internal/strategy"
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// Engine 配置计算引擎: 加载收益率序列, 运行自助法聚合, 导出最终配置
type Engine struct {
	cfg    *config.Config
	loader data.ReturnsLoader
	logger zerolog.Logger
	result *Result
}

// Result 一次完整计算的结果
type Result struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Periods     int                    `json:"periods"`
	Params      types.SimulationParams `json:"params"`
	Iterations  *types.IterationTable  `json:"iterations"`
	Allocation  *types.Allocation      `json:"allocation"`
	Elapsed     time.Duration          `json:"elapsed_ns"`
}

// New 创建配置计算引擎
func New(cfg *config.Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger,
	}
}

// SetLoader 设置数据加载器
func (e *Engine) SetLoader(loader data.ReturnsLoader) {
	e.loader = loader
}

// Run 运行完整计算流程
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.loader == nil {
		return nil, fmt.Errorf("data loader not set")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	series, err := e.loader.Load(e.cfg.Input.ReturnsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load returns: %w", err)
	}

	params := e.cfg.ToSimulationParams()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation params: %w", err)
	}

	// 历史不足一个再平衡周期时组合永远不会交易回目标权重
	if series.NumPeriods() < params.RebalancePeriod {
		e.logger.Warn().
			Int("periods", series.NumPeriods()).
			Int("rebalance_period", params.RebalancePeriod).
			Msg("history shorter than one rebalance period, portfolio will never rebalance to target")
	}

	e.logger.Info().
		Int("assets", series.NumAssets()).
		Int("periods", series.NumPeriods()).
		Int("iterations", e.cfg.Allocation.Iterations).
		Float64("hurdle", params.Hurdle).
		Msg("starting allocation run")

	aggregator := &bootstrap.Aggregator{
		Iterations: e.cfg.Allocation.Iterations,
		Workers:    e.cfg.Allocation.Workers,
		Seed:       e.cfg.Allocation.Seed,
		Params:     params,
		Model:      cost.NewDefaultModel(params.FeeRate),
		Optimizer:  strategy.NewOptimizer(series.NumAssets(), e.cfg.LowerBound(), e.cfg.UpperBound(), e.logger),
		Logger:     e.logger,
	}

	start := time.Now()
	allocation, table, err := aggregator.Run(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("bootstrap failed: %w", err)
	}

	e.result = &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Periods:     series.NumPeriods(),
		Params:      params,
		Iterations:  table,
		Allocation:  allocation,
		Elapsed:     time.Since(start),
	}
	return e.result, nil
}

// GetResult 获取计算结果
func (e *Engine) GetResult() *Result {
	return e.result
}

// ExportResults 导出结果: 带日期的JSON全量结果加一个扁平的配置CSV
func (e *Engine) ExportResults(dir string) error {
	if e.result == nil {
		return fmt.Errorf("no results to export, run the engine first")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	jsonPath := filepath.Join(dir,
		fmt.Sprintf("strategic_allocation_%s.json", e.result.GeneratedAt.Format("20060102")))
	payload, err := json.MarshalIndent(e.result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	csvPath := filepath.Join(dir, "allocation.csv")
	if err := writeAllocationCSV(csvPath, e.result.Allocation); err != nil {
		return err
	}

	e.logger.Info().Str("json", jsonPath).Str("csv", csvPath).Msg("results exported")
	return nil
}

// writeAllocationCSV 将最终配置写为两列CSV
func writeAllocationCSV(path string, allocation *types.Allocation) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Asset", "Weights (%)"}); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	for i, asset := range allocation.Assets {
		row := []string{asset, strconv.FormatFloat(allocation.Weights[i], 'f', 4, 64)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrintSummary 打印计算摘要
func (e *Engine) PrintSummary() {
	if e.result == nil {
		fmt.Println("No results available")
		return
	}

	fmt.Println("\n========== Allocation Summary ==========")
	fmt.Printf("Run ID: %s\n", e.result.RunID)
	fmt.Printf("Periods: %d\n", e.result.Periods)
	fmt.Printf("Iterations: %d\n", len(e.result.Iterations.Records))
	fmt.Printf("Fee Rate: %.4f\n", e.result.Params.FeeRate)
	fmt.Printf("Rebalance Period: %d\n", e.result.Params.RebalancePeriod)
	fmt.Printf("Hurdle (per period): %.6f\n", e.result.Params.Hurdle)
	fmt.Printf("Elapsed: %s\n", e.result.Elapsed)
	fmt.Println("----------------------------------------")
	for i, asset := range e.result.Allocation.Assets {
		fmt.Printf("%-12s %6.2f%%\n", asset, e.result.Allocation.Weights[i])
	}
	fmt.Println("========================================")
}
