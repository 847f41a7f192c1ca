package aggregator

// Indicator 汇总指标（用于页面预览）
type Indicator struct {
	ID    string `json:"id"`    // 指标ID
	Name  string `json:"name"`  // 指标名称
	Value int    `json:"value"` // 指标值
	Unit  string `json:"unit"`  // 单位
}

// Indicators 汇总指标列表
func (v *View) Indicators() []Indicator {
	return []Indicator{
		{ID: "total_people", Name: "组内人数", Value: v.TotalPeople, Unit: "人"},
		{ID: "pooled_people", Name: "入池人数", Value: v.PooledPeople, Unit: "人"},
		{ID: "pooled_departments", Name: "入池部门", Value: v.DepartmentCount(), Unit: "个"},
		{ID: "projects", Name: "支持项目", Value: v.ProjectCount(), Unit: "个"},
		{ID: "resumes", Name: "通过简历", Value: v.Recruiting.Resumes, Unit: "份"},
		{ID: "interviews", Name: "面试", Value: v.Recruiting.Interviews, Unit: "人"},
		{ID: "passed", Name: "面试通过", Value: v.Recruiting.Passed, Unit: "人"},
	}
}
