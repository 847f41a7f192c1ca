// Package testutil 测试用的周报工作簿构造工具
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// FullHeaders 完整的周报表头（含可选列）
var FullHeaders = []string{
	"工号", "姓名", "工作类型", "项目名称", "入池部门", "项目阶段",
	"上周三至本周二工作内容", "本周三至下周二工作计划", "问题反馈",
	"通过简历数量", "面试人员数量", "面试通过人员数量",
}

// Row 按 FullHeaders 顺序描述一行
type Row struct {
	EmployeeID, Name, WorkType, Project, Department, Stage string
	LastWeek, NextWeek, Issues                             string
	Resumes, Interviews, Passed                            any
}

// Values 转为单元格值
func (r Row) Values() []any {
	return []any{
		r.EmployeeID, r.Name, r.WorkType, r.Project, r.Department, r.Stage,
		r.LastWeek, r.NextWeek, r.Issues,
		r.Resumes, r.Interviews, r.Passed,
	}
}

// BuildWorkbook 在内存中构造单 Sheet 工作簿
func BuildWorkbook(t *testing.T, headers []string, rows [][]any) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	const sheet = "Sheet1"
	if err := wb.SetSheetRow(sheet, "A1", &headers); err != nil {
		t.Fatalf("SetSheetRow header failed: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		values := row
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	return wb
}

// BuildRows 使用完整表头构造工作簿
func BuildRows(t *testing.T, rows ...Row) *excelize.File {
	t.Helper()

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Values())
	}
	return BuildWorkbook(t, FullHeaders, values)
}

// SaveWorkbook 保存到临时目录并返回路径
func SaveWorkbook(t *testing.T, wb *excelize.File, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })
	return path
}

// SampleRows 两行示例：一个入项项目、一个入池部门
func SampleRows() []Row {
	return []Row{
		{
			EmployeeID: "E001", Name: "张三", WorkType: "入项", Project: "Alpha", Stage: "开发迭代中",
			LastWeek: "1.Built feature\n2.Fixed bug", NextWeek: "1.Ship release",
			Resumes: 12, Interviews: 5, Passed: 3,
		},
		{
			EmployeeID: "E002", Name: "李四", WorkType: "入池", Project: "Beta", Department: "Ops", Stage: "测试阶段",
			LastWeek: "Tested module", NextWeek: "Regression test",
			Resumes: 0, Interviews: 0, Passed: 0,
		},
	}
}
