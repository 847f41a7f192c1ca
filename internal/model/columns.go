package model

// 周报 Excel 列名
const (
	ColEmployeeID         = "工号"
	ColName               = "姓名"
	ColWorkType           = "工作类型"
	ColProjectName        = "项目名称"
	ColProjectStage       = "项目阶段"
	ColDepartment         = "入池部门"
	ColLastWeekWork       = "上周三至本周二工作内容"
	ColNextWeekPlan       = "本周三至下周二工作计划"
	ColIssues             = "问题反馈"
	ColResumeCount        = "通过简历数量"
	ColInterviewCount     = "面试人员数量"
	ColInterviewPassCount = "面试通过人员数量"
)

// RequiredColumns 必需字段（顺序即报错顺序）
var RequiredColumns = []string{
	ColName,
	ColWorkType,
	ColProjectName,
	ColProjectStage,
	ColLastWeekWork,
	ColNextWeekPlan,
	ColIssues,
	ColResumeCount,
	ColInterviewCount,
	ColInterviewPassCount,
}

// NumericColumns 需要转换为数字的字段
var NumericColumns = []string{
	ColResumeCount,
	ColInterviewCount,
	ColInterviewPassCount,
}
