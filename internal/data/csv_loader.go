package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/opsxjacky/strategic-allocation/pkg/types"
)

// CSVLoader CSV收益率加载器。宽表格式: 表头为 Date 加各资产列,
// 每行一个交易期, 单元格为当期收益率 (小数)。
type CSVLoader struct{}

// NewCSVLoader 创建CSV加载器
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// SourceType 返回数据源类型
func (l *CSVLoader) SourceType() string {
	return "csv"
}

// Load 读取并校验收益率文件。任何格式或结构问题立即失败,
// 不进入模拟阶段。
func (l *CSVLoader) Load(path string) (*types.ReturnSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("file %s has no data rows", path)
	}

	header := records[0]
	if !isDateColumn(header[0]) {
		return nil, fmt.Errorf("first column must be the date column, got %q", header[0])
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("need at least one asset column")
	}
	assets := header[1:]

	rows := make([]types.ReturnRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := records[i]

		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		returns := make([]float64, len(assets))
		for j, cell := range row[1:] {
			r, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid return for %s: %q", i, assets[j], cell)
			}
			returns[j] = r
		}

		rows = append(rows, types.ReturnRow{Date: date, Returns: returns})
	}

	series := types.NewReturnSeries(assets, rows)
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid return history in %s: %w", path, err)
	}
	return series, nil
}

// isDateColumn 识别日期列表头
func isDateColumn(name string) bool {
	switch name {
	case "Date", "date", "DATE", "Timestamp", "timestamp":
		return true
	}
	return false
}

// parseDate 解析日期字符串
func parseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
