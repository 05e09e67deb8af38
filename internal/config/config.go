package config

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// Config 配置文件结构
type Config struct {
	Input      InputSection      `yaml:"input"`
	Allocation AllocationSection `yaml:"allocation"`
	Bounds     BoundsSection     `yaml:"bounds"`
	Output     OutputSection     `yaml:"output"`
}

// InputSection 输入配置
type InputSection struct {
	ReturnsFile string `yaml:"returns_file"`
}

// AllocationSection 配置计算参数
type AllocationSection struct {
	FeeRate            float64 `yaml:"fee_rate"`             // 单边费率 (小数)
	RebalancePeriod    int     `yaml:"rebalance_period"`     // 再平衡间隔期数
	AnnualReturnTarget float64 `yaml:"annual_return_target"` // 年化目标收益 (%)
	Iterations         int     `yaml:"iterations"`           // 自助法迭代次数
	Seed               int64   `yaml:"seed"`                 // 随机种子, 0 取当前时间
	Workers            int     `yaml:"workers"`              // 并发迭代数
}

// BoundsSection 权重上下界
type BoundsSection struct {
	Lower *float64 `yaml:"lower"`
	Upper *float64 `yaml:"upper"`
}

// OutputSection 输出配置
type OutputSection struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// LoadConfig 从文件加载配置并填充默认值
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults 填充缺省参数
func (c *Config) applyDefaults() {
	if c.Allocation.RebalancePeriod == 0 {
		c.Allocation.RebalancePeriod = 30
	}
	if c.Allocation.Iterations == 0 {
		c.Allocation.Iterations = 10
	}
	if c.Allocation.Workers == 0 {
		c.Allocation.Workers = runtime.NumCPU()
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Input.ReturnsFile == "" {
		return fmt.Errorf("input.returns_file is required")
	}
	if c.Allocation.FeeRate < 0 || c.Allocation.FeeRate >= 1 {
		return fmt.Errorf("allocation.fee_rate must be in [0, 1), got %v", c.Allocation.FeeRate)
	}
	if c.Allocation.RebalancePeriod < 1 {
		return fmt.Errorf("allocation.rebalance_period must be positive, got %d", c.Allocation.RebalancePeriod)
	}
	if c.Allocation.Iterations < 1 {
		return fmt.Errorf("allocation.iterations must be positive, got %d", c.Allocation.Iterations)
	}
	lower, upper := c.LowerBound(), c.UpperBound()
	if lower < 0 || upper > 1 || lower > upper {
		return fmt.Errorf("bounds must satisfy 0 <= lower <= upper <= 1, got [%v, %v]", lower, upper)
	}
	return nil
}

// Hurdle 年化目标收益换算为单期目标: (1 + target)^(1/365) - 1
func (c *Config) Hurdle() float64 {
	return math.Pow(1+c.Allocation.AnnualReturnTarget/100, 1.0/365) - 1
}

// ToSimulationParams 转换为模拟参数
func (c *Config) ToSimulationParams() types.SimulationParams {
	return types.SimulationParams{
		FeeRate:         c.Allocation.FeeRate,
		RebalancePeriod: c.Allocation.RebalancePeriod,
		Hurdle:          c.Hurdle(),
	}
}

// LowerBound 权重下界, 缺省为 0
func (c *Config) LowerBound() float64 {
	if c.Bounds.Lower != nil {
		return *c.Bounds.Lower
	}
	return 0
}

// UpperBound 权重上界, 缺省为 1
func (c *Config) UpperBound() float64 {
	if c.Bounds.Upper != nil {
		return *c.Bounds.Upper
	}
	return 1
}

// GetOutputPath 获取输出路径
func (c *Config) GetOutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return "output"
}
