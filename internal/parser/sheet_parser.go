package parser

import (
	"weeklyreport/internal/model"
)

// Parse 校验表头并解析全部数据行
func Parse(t *Table) (*model.WeeklySheet, []CoercionWarning, error) {
	if err := Validate(t); err != nil {
		return nil, nil, err
	}

	sheet := &model.WeeklySheet{
		SourceName:    t.Source,
		Columns:       append([]string(nil), t.Headers...),
		Entries:       make([]model.NormalizedEntry, 0, len(t.Rows)),
		HasDepartment: t.HasColumn(model.ColDepartment),
	}

	var warnings []CoercionWarning
	for i := range t.Rows {
		entry := model.WorkEntry{
			RowNo:        t.RowNos[i],
			EmployeeID:   t.Cell(i, model.ColEmployeeID),
			Name:         t.Cell(i, model.ColName),
			WorkType:     model.WorkType(t.Cell(i, model.ColWorkType)),
			ProjectName:  t.Cell(i, model.ColProjectName),
			ProjectStage: t.Cell(i, model.ColProjectStage),
			Department:   t.Cell(i, model.ColDepartment),
			LastWeekWork: t.Cell(i, model.ColLastWeekWork),
			NextWeekPlan: t.Cell(i, model.ColNextWeekPlan),
			Issues:       t.Cell(i, model.ColIssues),
		}
		warnings = append(warnings, coerceCounts(t, i, &entry)...)

		sheet.Entries = append(sheet.Entries, model.NormalizedEntry{
			WorkEntry:     entry,
			LastWeekItems: SplitStatements(entry.LastWeekWork),
			NextWeekItems: SplitStatements(entry.NextWeekPlan),
		})
	}

	return sheet, warnings, nil
}

// LoadSheet 读取文件并解析
func LoadSheet(path string) (*model.WeeklySheet, []CoercionWarning, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, nil, err
	}
	return Parse(t)
}
