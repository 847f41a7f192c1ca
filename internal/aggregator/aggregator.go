package aggregator

import (
	"errors"
	"strings"

	"weeklyreport/internal/model"
)

// ErrMissingDepartmentColumn 缺少“入池部门”列，无法汇总入池工作
var ErrMissingDepartmentColumn = errors.New("缺少入池部门字段，无法汇总入池工作")

// Rules 分类规则
type Rules struct {
	CatchAllMarker string         // 项目名称包含该文本即视为“其他”项目
	PooledType     model.WorkType // 入池
	AssignedType   model.WorkType // 入项
}

// DefaultRules 默认分类规则
func DefaultRules() Rules {
	return Rules{
		CatchAllMarker: "其他",
		PooledType:     model.WorkTypePooled,
		AssignedType:   model.WorkTypeAssigned,
	}
}

// IsCatchAll 判断项目是否归入“其他工作”
func (r Rules) IsCatchAll(projectName string) bool {
	return r.CatchAllMarker != "" && strings.Contains(projectName, r.CatchAllMarker)
}

// Build 汇总一次上传的全部数据
func Build(sheet *model.WeeklySheet, rules Rules) (*View, error) {
	if sheet == nil {
		return nil, errors.New("sheet is nil")
	}
	if !sheet.HasDepartment {
		return nil, ErrMissingDepartmentColumn
	}

	v := &View{}
	allNames := newOrderedSet()
	pooledNames := newOrderedSet()
	departments := newOrderedSet()
	projects := newOrderedSet()
	deptIndex := make(map[string]int)

	for i := range sheet.Entries {
		e := &sheet.Entries[i]

		allNames.add(e.Name)
		if !rules.IsCatchAll(e.ProjectName) {
			projects.add(e.ProjectName)
		}

		v.Recruiting.Resumes += e.ResumeCount
		v.Recruiting.Interviews += e.InterviewCount
		v.Recruiting.Passed += e.InterviewPassCount

		if rules.IsCatchAll(e.ProjectName) {
			v.CatchAll = append(v.CatchAll, e)
		}

		switch e.WorkType {
		case rules.AssignedType:
			if rules.IsCatchAll(e.ProjectName) {
				v.AssignedCatchAll = append(v.AssignedCatchAll, e)
			} else {
				v.AssignedRegular = append(v.AssignedRegular, e)
			}
		case rules.PooledType:
			pooledNames.add(e.Name)
			departments.add(e.Department)
			if rules.IsCatchAll(e.ProjectName) {
				v.PooledCatchAll = append(v.PooledCatchAll, e)
				continue
			}
			v.PooledRegular = append(v.PooledRegular, e)
			addToDepartment(v, deptIndex, e)
		}
	}

	v.TotalPeople = allNames.len()
	v.PooledPeople = pooledNames.len()
	v.PooledDepartments = departments.values()
	v.RegularProjects = projects.values()

	return v, nil
}

// addToDepartment 按部门、项目分组（均按首次出现顺序）
func addToDepartment(v *View, deptIndex map[string]int, e *model.NormalizedEntry) {
	if e.Department == "" {
		return
	}
	idx, ok := deptIndex[e.Department]
	if !ok {
		idx = len(v.Departments)
		deptIndex[e.Department] = idx
		v.Departments = append(v.Departments, DepartmentGroup{
			Name:   e.Department,
			people: newOrderedSet(),
		})
	}
	dept := &v.Departments[idx]
	dept.people.add(e.Name)
	dept.People = dept.people.len()

	if e.ProjectName == "" {
		return
	}
	for j := range dept.Projects {
		if dept.Projects[j].Name == e.ProjectName {
			dept.Projects[j].Entries = append(dept.Projects[j].Entries, e)
			return
		}
	}
	dept.Projects = append(dept.Projects, ProjectGroup{
		Name:    e.ProjectName,
		Stage:   e.ProjectStage,
		Entries: []*model.NormalizedEntry{e},
	})
}

// orderedSet 保持首次出现顺序的去重集合，忽略空值
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) len() int { return len(s.items) }

func (s *orderedSet) values() []string {
	return append([]string{}, s.items...)
}
