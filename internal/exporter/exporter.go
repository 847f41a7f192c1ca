package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"weeklyreport/internal/aggregator"
	"weeklyreport/internal/config"
	"weeklyreport/internal/model"
	"weeklyreport/internal/parser"
	"weeklyreport/internal/report"
)

// Format 输出格式
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Formats 全部输出格式（RenderAll 顺序）
var Formats = []Format{FormatPDF, FormatDOCX}

// ParseFormat 解析格式名（大小写不敏感）
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// ContentType 下载时使用的 MIME 类型
func (f Format) ContentType() string {
	if f == FormatDOCX {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}

// Exporter 周报生成器
//
// 一次生成只组合一次文档结构，PDF 与 DOCX 共用同一份结构。
type Exporter struct {
	cfg   *config.AppConfig
	log   zerolog.Logger
	now   func() time.Time
	fonts *fontSource
}

// NewExporter 创建生成器
func NewExporter(cfg *config.AppConfig, log zerolog.Logger) *Exporter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Exporter{
		cfg:   cfg,
		log:   log.With().Str("component", "exporter").Logger(),
		now:   time.Now,
		fonts: newFontSource(config.ResolveFontPaths(cfg)),
	}
}

// WithClock 替换时钟（年份、文档元数据使用）
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// Identity 报告抬头
func (e *Exporter) Identity() report.Identity {
	r := e.cfg.Report
	return report.Identity{Company: r.Company, Department: r.Department, Group: r.Group}
}

// Rules 分类规则
func (e *Exporter) Rules() aggregator.Rules {
	rules := aggregator.DefaultRules()
	r := e.cfg.Report
	if r.CatchAllMarker != "" {
		rules.CatchAllMarker = r.CatchAllMarker
	}
	if r.PooledLabel != "" {
		rules.PooledType = model.WorkType(r.PooledLabel)
	}
	if r.AssignedLabel != "" {
		rules.AssignedType = model.WorkType(r.AssignedLabel)
	}
	return rules
}

// FileName 下载文件名
func (e *Exporter) FileName(dateLabel string, format Format) string {
	return report.FileName(e.Identity(), dateLabel, string(format))
}

// ExportOptions 生成选项
type ExportOptions struct {
	Sheet     *model.WeeklySheet
	Issue     string
	DateLabel string
	Format    Format
	Dest      string
	Progress  func(ProgressEvent)
}

// Compose 汇总并组合文档结构
func (e *Exporter) Compose(sheet *model.WeeklySheet, issue, dateLabel string) (*report.Document, error) {
	issue, dateLabel = strings.TrimSpace(issue), strings.TrimSpace(dateLabel)
	if issue == "" || dateLabel == "" {
		return nil, ErrMissingRequestFields
	}
	view, err := aggregator.Build(sheet, e.Rules())
	if err != nil {
		return nil, wrapStage("", StageAggregate, err)
	}
	req := report.Request{Year: e.now().Year(), Issue: issue, DateLabel: dateLabel}
	return report.Compose(req, view, e.Identity()), nil
}

// Export 生成单个格式并写入 Dest
func (e *Exporter) Export(opts ExportOptions) error {
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return err
	}

	reportProgress(opts.Progress, 30, StageAggregate, opts.Format)
	doc, err := e.Compose(opts.Sheet, opts.Issue, opts.DateLabel)
	if err != nil {
		return wrapStage(opts.Format, StageCompose, err)
	}
	reportProgress(opts.Progress, 50, StageCompose, opts.Format)

	return e.write(doc, opts.Format, opts.Dest, opts.Progress)
}

func (e *Exporter) write(doc *report.Document, format Format, dest string, progress func(ProgressEvent)) error {
	start := time.Now()
	reportProgress(progress, 70, StageSerialize, format)

	err := writeAtomic(dest, func(w io.Writer) error {
		switch format {
		case FormatPDF:
			return e.writePDF(w, doc)
		case FormatDOCX:
			return e.writeDOCX(w, doc)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
		}
	})
	if err != nil {
		return wrapStage(format, StageSerialize, err)
	}

	reportProgress(progress, 100, StageFinalize, format)
	e.log.Info().
		Str("format", string(format)).
		Str("dest", dest).
		Int("blocks", len(doc.Blocks)).
		Dur("elapsed", time.Since(start)).
		Msg("report written")
	return nil
}

// LoadSheet 读取并校验周报表，类型转换告警记入 debug 日志
func (e *Exporter) LoadSheet(src string) (*model.WeeklySheet, error) {
	sheet, warnings, err := parser.LoadSheet(src)
	if err != nil {
		return nil, wrapStage("", StageParse, err)
	}
	e.logWarnings(warnings)
	return sheet, nil
}

// LoadSheetFrom 从上传内容读取
func (e *Exporter) LoadSheetFrom(r io.Reader, filename string) (*model.WeeklySheet, []parser.CoercionWarning, error) {
	t, err := parser.ReadTableFrom(r, filename)
	if err != nil {
		return nil, nil, wrapStage("", StageParse, err)
	}
	sheet, warnings, err := parser.Parse(t)
	if err != nil {
		return nil, nil, wrapStage("", StageParse, err)
	}
	e.logWarnings(warnings)
	return sheet, warnings, nil
}

func (e *Exporter) logWarnings(warnings []parser.CoercionWarning) {
	for _, w := range warnings {
		e.log.Debug().
			Int("row", w.RowNo).
			Str("column", w.Column).
			Str("value", w.Value).
			Msg(w.String())
	}
}

// RenderPDF 读取 src 生成 PDF 到 dst
func (e *Exporter) RenderPDF(src, dst, issue, dateLabel string) error {
	return e.render(src, dst, issue, dateLabel, FormatPDF)
}

// RenderDOCX 读取 src 生成 DOCX 到 dst
func (e *Exporter) RenderDOCX(src, dst, issue, dateLabel string) error {
	return e.render(src, dst, issue, dateLabel, FormatDOCX)
}

func (e *Exporter) render(src, dst, issue, dateLabel string, format Format) error {
	sheet, err := e.LoadSheet(src)
	if err != nil {
		return wrapStage(format, StageParse, err)
	}
	return e.Export(ExportOptions{
		Sheet:     sheet,
		Issue:     issue,
		DateLabel: dateLabel,
		Format:    format,
		Dest:      dst,
	})
}

// RenderAll 一次组合，按 formats 依次写入 dir，返回生成的文件路径
func (e *Exporter) RenderAll(sheet *model.WeeklySheet, dir, issue, dateLabel string, formats []Format, progress func(ProgressEvent)) ([]string, error) {
	if len(formats) == 0 {
		formats = Formats
	}

	reportProgress(progress, 20, StageAggregate, "")
	doc, err := e.Compose(sheet, issue, dateLabel)
	if err != nil {
		return nil, wrapStage("", StageCompose, err)
	}
	reportProgress(progress, 40, StageCompose, "")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrapStage("", StageFinalize, err)
	}

	paths := make([]string, 0, len(formats))
	for i, format := range formats {
		dest := filepath.Join(dir, e.FileName(strings.TrimSpace(dateLabel), format))
		err := e.write(doc, format, dest, func(ev ProgressEvent) {
			// 按格式均分 40~100 区间
			span := 60 / len(formats)
			reportProgress(progress, 40+span*i+ev.Percent*span/100, ev.Stage, ev.Format)
		})
		if err != nil {
			for _, p := range paths {
				_ = os.Remove(p)
			}
			return nil, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// writeAtomic 先写临时文件再重命名，失败时删除临时文件
func writeAtomic(dest string, fill func(w io.Writer) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return err
	}
	committed = true
	return nil
}
