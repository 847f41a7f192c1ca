package parser

import (
	"path/filepath"
	"testing"

	"github.com/extrame/xls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdata/weekly.xls：第一张为“说明”页，第二张“周报”页表头带多余空白，
// 第 3 行整行缺失，末尾两行为空白单元格
const xlsFixture = "weekly.xls"

func TestReadTable_XLS(t *testing.T) {
	t.Parallel()

	table, err := ReadTable(filepath.Join("testdata", xlsFixture))
	require.NoError(t, err)

	assert.Equal(t, xlsFixture, table.Source)
	assert.Equal(t, "周报", table.SheetName)
	assert.Equal(t, []string{
		"工号", "姓名", "工作类型", "项目名称", "入池部门", "项目阶段",
		"上周三至本周二工作内容", "本周三至下周二工作计划", "问题反馈",
		"通过简历数量", "面试人员数量", "面试通过人员数量",
	}, table.Headers)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []int{2, 4}, table.RowNos)
	assert.Equal(t, "张三", table.Cell(0, "姓名"))
	assert.Equal(t, "1.Built feature\n2.Fixed bug", table.Cell(0, "上周三至本周二工作内容"))
	assert.Equal(t, "12", table.Cell(0, "通过简历数量"))
	assert.Empty(t, table.Cell(0, "入池部门"))
	assert.Equal(t, "Ops", table.Cell(1, "入池部门"))
	assert.Equal(t, "N/A", table.Cell(1, "面试通过人员数量"))
}

func TestReadXLSSheet_TrimsTrailingBlankRows(t *testing.T) {
	t.Parallel()

	wb, err := xls.Open(filepath.Join("testdata", xlsFixture), "utf-8")
	require.NoError(t, err)
	require.NotNil(t, wb)
	require.Equal(t, 2, wb.NumSheets())

	sheet := wb.GetSheet(1)
	require.NotNil(t, sheet)
	assert.Equal(t, "周报", sheet.Name)
	assert.Equal(t, uint16(5), sheet.MaxRow)

	rows := readXLSSheet(sheet)
	require.Len(t, rows, 4)
	assert.Len(t, rows[0], 12)
	assert.Equal(t, " 姓名 ", rows[0][1])
	assert.Equal(t, "项目　阶段", rows[0][5])
	assert.Nil(t, rows[2])
	assert.Equal(t, "E002", rows[3][0])
	assert.Equal(t, "N/A", rows[3][11])
}

func TestLoadSheet_XLS(t *testing.T) {
	t.Parallel()

	sheet, warnings, err := LoadSheet(filepath.Join("testdata", xlsFixture))
	require.NoError(t, err)
	require.Len(t, sheet.Entries, 2)
	assert.True(t, sheet.HasDepartment)

	a := sheet.Entries[0]
	assert.Equal(t, 2, a.RowNo)
	assert.Equal(t, []string{"1.Built feature", "2.Fixed bug"}, a.LastWeekItems)
	assert.Equal(t, 12, a.ResumeCount)
	assert.Equal(t, 3, a.InterviewPassCount)

	b := sheet.Entries[1]
	assert.Equal(t, 4, b.RowNo)
	assert.Equal(t, "Ops", b.Department)
	assert.Equal(t, 0, b.InterviewPassCount)

	require.Len(t, warnings, 1)
	assert.Equal(t, 4, warnings[0].RowNo)
	assert.Equal(t, "面试通过人员数量", warnings[0].Column)
	assert.Equal(t, "N/A", warnings[0].Value)
}
