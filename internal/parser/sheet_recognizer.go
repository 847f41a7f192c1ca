package parser

import (
	"weeklyreport/internal/model"
)

// SheetRecognizer 周报工作表识别器
type SheetRecognizer struct {
	required []string
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{required: model.RequiredColumns}
}

// Recognize 按必需字段命中比例计算置信度
func (r *SheetRecognizer) Recognize(sheetName string, sheetIndex int, columnNames []string) SheetRecognitionResult {
	present := make(map[string]bool, len(columnNames))
	for _, col := range columnNames {
		present[NormalizeColumnName(col)] = true
	}

	var missing []string
	for _, field := range r.required {
		if !present[field] {
			missing = append(missing, field)
		}
	}

	return SheetRecognitionResult{
		SheetName:  sheetName,
		SheetIndex: sheetIndex,
		Confidence: float64(len(r.required)-len(missing)) / float64(len(r.required)),
		Missing:    missing,
	}
}

// Pick 从多个工作表中选择周报表
// 置信度相同时取靠前的工作表；全部为 0 时返回第一个
func (r *SheetRecognizer) Pick(candidates []SheetRecognitionResult) (SheetRecognitionResult, bool) {
	if len(candidates) == 0 {
		return SheetRecognitionResult{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best, true
}
