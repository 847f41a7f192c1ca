package model

// WorkType 工作类型
type WorkType string

const (
	WorkTypePooled   WorkType = "入池" // 入池：支持行内部门
	WorkTypeAssigned WorkType = "入项" // 入项：计入具体项目
)

// WorkEntry 周报表中的一行
type WorkEntry struct {
	RowNo        int      `json:"rowNo"`        // Excel 行号（从 1 开始，含表头）
	EmployeeID   string   `json:"employeeId"`   // 工号
	Name         string   `json:"name"`         // 姓名
	WorkType     WorkType `json:"workType"`     // 工作类型
	ProjectName  string   `json:"projectName"`  // 项目名称
	ProjectStage string   `json:"projectStage"` // 项目阶段
	Department   string   `json:"department"`   // 入池部门
	LastWeekWork string   `json:"lastWeekWork"` // 上周三至本周二工作内容（原文）
	NextWeekPlan string   `json:"nextWeekPlan"` // 本周三至下周二工作计划（原文）
	Issues       string   `json:"issues"`       // 问题反馈

	ResumeCount        int `json:"resumeCount"`        // 通过简历数量
	InterviewCount     int `json:"interviewCount"`     // 面试人员数量
	InterviewPassCount int `json:"interviewPassCount"` // 面试通过人员数量
}

// NormalizedEntry 拆分后的周报行，生成后只读
type NormalizedEntry struct {
	WorkEntry
	LastWeekItems []string `json:"lastWeekItems"`
	NextWeekItems []string `json:"nextWeekItems"`
}

// Items 按周期返回条目
func (e *NormalizedEntry) Items(p Period) []string {
	if p == PeriodNext {
		return e.NextWeekItems
	}
	return e.LastWeekItems
}

// Period 汇报周期
type Period int

const (
	PeriodCurrent Period = iota // 当周工作情况
	PeriodNext                  // 下周工作计划
)

// WeeklySheet 一次上传解析出的全部数据
type WeeklySheet struct {
	SourceName    string            `json:"sourceName"`
	Columns       []string          `json:"columns"`
	Entries       []NormalizedEntry `json:"entries"`
	HasDepartment bool              `json:"hasDepartment"` // 是否包含“入池部门”列
}
