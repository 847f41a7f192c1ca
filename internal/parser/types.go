package parser

import (
	"fmt"
	"strings"
)

// Table 读取后的原始表格（首行为表头）
type Table struct {
	Source    string     // 来源文件名
	SheetName string     // 工作表名称
	Headers   []string   // 规范化后的表头
	Rows      [][]string // 数据行（不含表头）
	RowNos    []int      // 数据行对应的 Excel 行号

	index map[string]int
}

// NewTable 创建表格，表头会被规范化
func NewTable(source, sheetName string, headers []string, rows [][]string) *Table {
	t := &Table{
		Source:    source,
		SheetName: sheetName,
		Headers:   make([]string, len(headers)),
		index:     make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		name := NormalizeColumnName(h)
		t.Headers[i] = name
		if name == "" {
			continue
		}
		// 重名列以第一列为准
		if _, ok := t.index[name]; !ok {
			t.index[name] = i
		}
	}

	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
		t.RowNos = append(t.RowNos, i+2)
	}
	return t
}

// HasColumn 是否包含指定列
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell 读取某行指定列的值（已去除首尾空白）
func (t *Table) Cell(rowIdx int, column string) string {
	col, ok := t.index[column]
	if !ok || rowIdx < 0 || rowIdx >= len(t.Rows) {
		return ""
	}
	row := t.Rows[rowIdx]
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// SchemaError 缺少必需字段
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("Excel文件缺少必需字段：%s", strings.Join(e.Missing, ", "))
}

// CoercionWarning 数值字段无法解析，已按 0 处理
type CoercionWarning struct {
	RowNo  int    `json:"rowNo"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("第%d行 %s=%q 无法识别为数字，按 0 处理", w.RowNo, w.Column, w.Value)
}

// SheetRecognitionResult 工作表识别结果
type SheetRecognitionResult struct {
	SheetName  string   `json:"sheetName"`
	SheetIndex int      `json:"sheetIndex"`
	Confidence float64  `json:"confidence"` // 命中必需字段比例 0-1
	Missing    []string `json:"missing,omitempty"`
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
