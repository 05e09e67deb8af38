package data

import (
	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// ReturnsLoader 收益率数据加载器接口
type ReturnsLoader interface {
	// Load 加载完整收益率序列, 返回前已通过校验
	Load(path string) (*types.ReturnSeries, error)

	// SourceType 支持的数据源类型
	SourceType() string
}
