package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/opsxjacky/strategic-allocation/internal/config"
	"github.com/opsxjacky/strategic-allocation/internal/cost"
	"github.com/opsxjacky/strategic-allocation/internal/data"
	"github.com/opsxjacky/strategic-allocation/internal/engine"
	"github.com/opsxjacky/strategic-allocation/internal/portfolio"
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

var (
	cfgPath    string
	verbose    bool
	weightsArg string
)

// rootCmd 命令行入口
var rootCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Strategic asset allocation from historical returns",
	Long: `allocate computes a strategic target asset allocation from a CSV of
historical daily returns. It simulates periodic rebalancing, searches for
target weights that maximize the frequency of beating a return hurdle, and
stabilizes the result with bootstrap resampling.`,
}

// runCmd 完整的自助法配置计算
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute a bootstrapped strategic allocation",
	Long: `Run the full pipeline: load the return history, bootstrap-resample it,
search for the best target weights per resample, and aggregate the top half
of the iterations into a final allocation.

Example usage:
  allocate run --config config.yaml
  allocate run --config config.yaml --verbose`,
	RunE: runAllocation,
}

// backtestCmd 单次模拟指定权重
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Simulate rebalancing for an explicit weight vector",
	Long: `Run a single rebalancing simulation over the configured return history
with an explicit comma-separated target weight vector, and report the final
value and the hurdle outperformance frequency.

Example usage:
  allocate backtest --config config.yaml --weights 0.6,0.4`,
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backtestCmd)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	backtestCmd.Flags().StringVar(&weightsArg, "weights", "", "Comma-separated target weights, one per asset column")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup 加载配置并设置日志级别
func setup() (*config.Config, error) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return config.LoadConfig(cfgPath)
}

func runAllocation(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	eng := engine.New(cfg, log.Logger)
	eng.SetLoader(data.NewCSVLoader())

	if _, err := eng.Run(cmd.Context()); err != nil {
		return err
	}

	eng.PrintSummary()
	return eng.ExportResults(cfg.GetOutputPath())
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	weights, err := parseWeights(weightsArg)
	if err != nil {
		return err
	}

	series, err := data.NewCSVLoader().Load(cfg.Input.ReturnsFile)
	if err != nil {
		return err
	}
	if len(weights) != series.NumAssets() {
		return fmt.Errorf("expected %d weights for columns %v, got %d",
			series.NumAssets(), series.Assets, len(weights))
	}

	params := cfg.ToSimulationParams()
	sim := portfolio.NewSimulator(params, cost.NewDefaultModel(params.FeeRate))
	records := sim.Run(series, weights)
	printBacktest(series, weights, records)
	return nil
}

// parseWeights 解析逗号分隔的权重向量
func parseWeights(arg string) ([]float64, error) {
	if arg == "" {
		return nil, fmt.Errorf("--weights is required")
	}

	parts := strings.Split(arg, ",")
	weights := make([]float64, len(parts))
	for i, part := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", part, err)
		}
		weights[i] = w
	}
	return weights, nil
}

// printBacktest 打印单次模拟摘要
func printBacktest(series *types.ReturnSeries, weights []float64, records []types.PeriodRecord) {
	beat := 0
	for _, rec := range records {
		if rec.Return > rec.Hurdle {
			beat++
		}
	}
	last := records[len(records)-1]

	fmt.Println("\n========== Backtest Summary ==========")
	fmt.Printf("Period: %s to %s (%d periods)\n",
		records[0].Date.Format("2006-01-02"),
		last.Date.Format("2006-01-02"),
		len(records))
	for i, asset := range series.Assets {
		fmt.Printf("%-12s %6.2f%%\n", asset, weights[i]*100)
	}
	fmt.Printf("Initial Value: %.2f\n", portfolio.InitialValue)
	fmt.Printf("Final Value: %.2f\n", last.Total)
	fmt.Printf("Outperformance Frequency: %.2f%%\n", float64(beat)/float64(len(records))*100)
	fmt.Println("======================================")
}
