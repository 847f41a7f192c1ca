package aggregator

import (
	"strings"

	"weeklyreport/internal/model"
)

// View 单次生成使用的只读汇总视图
type View struct {
	TotalPeople       int      // 总人数（去重姓名）
	PooledPeople      int      // 入池人数
	PooledDepartments []string // 入池部门（首次出现顺序）
	RegularProjects   []string // 支持的项目（排除“其他”）

	AssignedRegular  []*model.NormalizedEntry // 入项-常规项目
	AssignedCatchAll []*model.NormalizedEntry // 入项-其他
	PooledRegular    []*model.NormalizedEntry // 入池-常规项目
	PooledCatchAll   []*model.NormalizedEntry // 入池-其他
	CatchAll         []*model.NormalizedEntry // 全部“其他”行（表格顺序）

	Departments []DepartmentGroup // 入池常规项目按部门/项目分组
	Recruiting  RecruitingTotals
}

// DepartmentGroup 入池部门分组
type DepartmentGroup struct {
	Name     string
	People   int
	Projects []ProjectGroup

	people *orderedSet
}

// ProjectGroup 部门下的项目分组
type ProjectGroup struct {
	Name    string
	Stage   string // 该组第一行的项目阶段
	Entries []*model.NormalizedEntry
}

// Items 合并组内全部条目（按行顺序）
func (g ProjectGroup) Items(p model.Period) []string {
	var out []string
	for _, e := range g.Entries {
		out = append(out, e.Items(p)...)
	}
	return out
}

// RecruitingTotals 招聘数据汇总
type RecruitingTotals struct {
	Resumes    int `json:"resumes"`    // 通过简历数量
	Interviews int `json:"interviews"` // 面试人员数量
	Passed     int `json:"passed"`     // 面试通过人员数量
}

// DepartmentCount 入池部门数
func (v *View) DepartmentCount() int { return len(v.PooledDepartments) }

// ProjectCount 支持项目数
func (v *View) ProjectCount() int { return len(v.RegularProjects) }

// JoinedDepartments 顿号连接的部门列表
func (v *View) JoinedDepartments() string { return strings.Join(v.PooledDepartments, "、") }

// JoinedProjects 顿号连接的项目列表
func (v *View) JoinedProjects() string { return strings.Join(v.RegularProjects, "、") }
