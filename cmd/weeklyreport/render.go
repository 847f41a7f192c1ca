package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"weeklyreport/internal/exporter"
)

type renderOptions struct {
	input  string
	issue  string
	date   string
	format string
	outDir string
	dryRun bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "读取周报 Excel 并生成 PDF / Word",
		Example: `  weeklyreport render -i 周报.xlsx --issue 12 --date 2025年6月1日
  weeklyreport render -i 周报.xls --issue 12 --date 2025年6月1日 --format docx -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "周报 Excel 文件 (.xlsx/.xls)")
	cmd.Flags().StringVar(&opts.issue, "issue", "", "期数")
	cmd.Flags().StringVar(&opts.date, "date", "", "日期，如 2025年6月1日")
	cmd.Flags().StringVar(&opts.format, "format", "all", "输出格式: pdf, docx, all")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "输出目录")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "只打印报告文本，不生成文件")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	issue, date := strings.TrimSpace(opts.issue), strings.TrimSpace(opts.date)
	if issue == "" || date == "" {
		return exporter.ErrMissingRequestFields
	}

	cfg, _, log, err := root.load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	exp := exporter.NewExporter(cfg, log)
	out := cmd.OutOrStdout()

	if opts.dryRun {
		sheet, err := exp.LoadSheet(opts.input)
		if err != nil {
			return err
		}
		doc, err := exp.Compose(sheet, issue, date)
		if err != nil {
			return err
		}
		for _, line := range doc.Lines() {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	var paths []string
	switch strings.ToLower(strings.TrimSpace(opts.format)) {
	case "", "all":
		sheet, err := exp.LoadSheet(opts.input)
		if err != nil {
			return err
		}
		paths, err = exp.RenderAll(sheet, opts.outDir, issue, date, exporter.Formats, nil)
		if err != nil {
			return err
		}
	default:
		format, err := exporter.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		dst := filepath.Join(opts.outDir, exp.FileName(date, format))
		render := exp.RenderPDF
		if format == exporter.FormatDOCX {
			render = exp.RenderDOCX
		}
		if err := render(opts.input, dst, issue, date); err != nil {
			return err
		}
		paths = []string{dst}
	}

	for _, p := range paths {
		fmt.Fprintf(out, "已生成: %s\n", p)
	}
	return nil
}
