package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklyreport/internal/exporter"
	"weeklyreport/internal/testutil"
)

// writeTestConfig 使用测试字体生成 PDF
func writeTestConfig(t *testing.T) string {
	t.Helper()
	return writeConfigWithFont(t, testutil.PDFFont(t))
}

func writeConfigWithFont(t *testing.T, fontPath string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[fonts]\npdf_font_paths = [\"" + filepath.ToSlash(fontPath) + "\"]\n\n[log]\nlevel = \"error\"\nconsole = false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRender_DryRun(t *testing.T) {
	src := testutil.SaveWorkbook(t, testutil.BuildRows(t, testutil.SampleRows()...), "weekly.xlsx")

	out, err := execute(t, "render", "--config", writeTestConfig(t),
		"-i", src, "--issue", "12", "--date", "2025年6月1日", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "年第 12 期")
	assert.Contains(t, out, "•Alpha（开发迭代中）\n1、Built feature\n2、Fixed bug\n")
	assert.Contains(t, out, "•招聘：简历通过12份，面试5人，通过3人")
}

func TestRender_WritesFiles(t *testing.T) {
	src := testutil.SaveWorkbook(t, testutil.BuildRows(t, testutil.SampleRows()...), "weekly.xlsx")
	outDir := t.TempDir()
	cfg := writeTestConfig(t)

	_, err := execute(t, "render", "--config", cfg,
		"-i", src, "--issue", "12", "--date", "2025年6月1日", "-o", outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "产品研发部-综合业务组周报汇总-2025年6月1日.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "产品研发部-综合业务组周报汇总-2025年6月1日.docx"))

	single := t.TempDir()
	_, err = execute(t, "render", "--config", cfg,
		"-i", src, "--issue", "12", "--date", "d", "--format", "docx", "-o", single)
	require.NoError(t, err)
	entries, err := os.ReadDir(single)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "产品研发部-综合业务组周报汇总-d.docx", entries[0].Name())
}

func TestRender_PDFWithoutFontFails(t *testing.T) {
	src := testutil.SaveWorkbook(t, testutil.BuildRows(t, testutil.SampleRows()...), "weekly.xlsx")
	outDir := t.TempDir()
	cfg := writeConfigWithFont(t, filepath.Join(t.TempDir(), "none.ttf"))

	_, err := execute(t, "render", "--config", cfg,
		"-i", src, "--issue", "12", "--date", "d", "--format", "pdf", "-o", outDir)
	assert.ErrorIs(t, err, exporter.ErrFontUnavailable)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_RequiresIssueAndDate(t *testing.T) {
	src := testutil.SaveWorkbook(t, testutil.BuildRows(t, testutil.SampleRows()...), "weekly.xlsx")

	_, err := execute(t, "render", "--config", writeTestConfig(t), "-i", src, "--issue", "12")
	assert.ErrorIs(t, err, exporter.ErrMissingRequestFields)
}

func TestRender_UnknownFormat(t *testing.T) {
	src := testutil.SaveWorkbook(t, testutil.BuildRows(t, testutil.SampleRows()...), "weekly.xlsx")

	_, err := execute(t, "render", "--config", writeTestConfig(t),
		"-i", src, "--issue", "1", "--date", "d", "--format", "txt", "-o", t.TempDir())
	assert.ErrorIs(t, err, exporter.ErrUnknownFormat)
}
