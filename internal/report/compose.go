package report

import (
	"fmt"

	"weeklyreport/internal/aggregator"
	"weeklyreport/internal/model"
	"weeklyreport/internal/parser"
)

// Identity 报告抬头信息
type Identity struct {
	Company    string // 北银金融科技有限责任公司
	Department string // 产品研发部
	Group      string // 综合业务组
}

// Request 单次生成的期数与日期
type Request struct {
	Year      int    // 当前年份
	Issue     string // 期数
	DateLabel string // 日期，如 2025年6月1日
}

const (
	recruitingOngoing = "•招聘：持续招聘工作"
	detailsIntro      = "汇报详情如下："
)

// Compose 按固定版式生成文档结构
func Compose(req Request, view *aggregator.View, id Identity) *Document {
	doc := &Document{Title: id.Department + id.Group + "周例会会议纪要"}

	doc.add(Block{Kind: KindTitle, Text: id.Company})
	doc.add(Block{Kind: KindTitle, Text: doc.Title})
	doc.add(Block{Kind: KindIssue, Text: fmt.Sprintf("%d 年第 %s 期", req.Year, req.Issue)})
	doc.add(Block{Kind: KindColumns, Cells: []string{id.Department, req.DateLabel}})
	doc.add(Block{Kind: KindDivider})

	// 一、当周工作情况
	doc.add(Block{Kind: KindHeading, Text: "一、当周工作情况"})
	doc.add(Block{Kind: KindParagraph, Text: summarySentence(view, id)})
	doc.add(Block{Kind: KindParagraph, Text: detailsIntro})
	doc.spacer(6)
	writePeriod(doc, view, id, model.PeriodCurrent)
	doc.item(fmt.Sprintf("•招聘：简历通过%d份，面试%d人，通过%d人",
		view.Recruiting.Resumes, view.Recruiting.Interviews, view.Recruiting.Passed), false)
	doc.spacer(8)

	// 二、下周工作计划
	doc.add(Block{Kind: KindHeading, Text: "二、下周工作计划"})
	doc.add(Block{Kind: KindParagraph, Text: fmt.Sprintf(
		"下一周%s%s将按计划有序推进各项目和部门入池工作，各项工作计划如下：", id.Department, id.Group)})
	doc.spacer(6)
	writePeriod(doc, view, id, model.PeriodNext)
	doc.item(recruitingOngoing, false)
	doc.spacer(8)

	return doc
}

func summarySentence(view *aggregator.View, id Identity) string {
	return fmt.Sprintf("%s%s共计%d人，组内有%d人入池%s%d个部门，支持行内日常工作。组内目前支持%d个项目，包括%s。",
		id.Department, id.Group,
		view.TotalPeople, view.PooledPeople,
		view.JoinedDepartments(), view.DepartmentCount(),
		view.ProjectCount(), view.JoinedProjects())
}

// writePeriod 写入 1.综合业务组 下的三部分，招聘条目由调用方追加
func writePeriod(doc *Document, view *aggregator.View, id Identity, p model.Period) {
	doc.add(Block{Kind: KindSubheading, Text: "1." + id.Group})

	// 1)项目进展
	doc.add(Block{Kind: KindSubheading, Text: "1)项目进展"})
	for _, e := range view.AssignedRegular {
		doc.item(fmt.Sprintf("•%s（%s）", e.ProjectName, e.ProjectStage), true)
		numbered(doc, e.Items(p))
		doc.spacer(4)
	}

	// 2)入池工作
	doc.add(Block{Kind: KindSubheading, Text: "2)入池工作"})
	doc.add(Block{Kind: KindParagraph, Text: fmt.Sprintf("目前组内有%d人，%d人入池。", view.TotalPeople, view.PooledPeople)})
	for _, dept := range view.Departments {
		doc.item(fmt.Sprintf("•%s（%d人）", dept.Name, dept.People), true)
		for _, proj := range dept.Projects {
			doc.item(fmt.Sprintf("%s（%s）", proj.Name, proj.Stage), false)
			numbered(doc, proj.Items(p))
		}
		doc.spacer(2)
	}

	// 3)其他工作
	doc.add(Block{Kind: KindSubheading, Text: "3)其他工作"})
	for _, e := range view.CatchAll {
		for _, s := range parser.CleanStatements(e.Items(p)) {
			doc.item("•"+s, false)
		}
	}
}

// numbered 清洗后从 1 开始编号
func numbered(doc *Document, items []string) {
	for i, s := range parser.CleanStatements(items) {
		doc.item(fmt.Sprintf("%d、%s", i+1, s), false)
	}
}

// FileName 下载文件名：产品研发部-综合业务组周报汇总-2025年6月1日.pdf
func FileName(id Identity, dateLabel, ext string) string {
	return fmt.Sprintf("%s-%s周报汇总-%s.%s", id.Department, id.Group, dateLabel, ext)
}
