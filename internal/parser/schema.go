package parser

import (
	"weeklyreport/internal/model"
)

// Validate 校验必需字段，缺失时返回 *SchemaError
func Validate(t *Table) error {
	var missing []string
	for _, col := range model.RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// coerceCounts 读取三个招聘数值字段，无法解析的值按 0 处理并记录告警
func coerceCounts(t *Table, rowIdx int, e *model.WorkEntry) []CoercionWarning {
	var warnings []CoercionWarning
	targets := map[string]*int{
		model.ColResumeCount:        &e.ResumeCount,
		model.ColInterviewCount:     &e.InterviewCount,
		model.ColInterviewPassCount: &e.InterviewPassCount,
	}
	for _, col := range model.NumericColumns {
		raw := t.Cell(rowIdx, col)
		n, ok := parseCount(raw)
		*targets[col] = n
		if !ok && raw != "" {
			warnings = append(warnings, CoercionWarning{
				RowNo:  t.RowNos[rowIdx],
				Column: col,
				Value:  raw,
			})
		}
	}
	return warnings
}
