package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weeklyreport/internal/aggregator"
	"weeklyreport/internal/config"
	"weeklyreport/internal/parser"
	"weeklyreport/internal/testutil"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()
	return newExporterWithFonts(t, testutil.PDFFont(t))
}

func newExporterWithFonts(t *testing.T, fontPaths ...string) *Exporter {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Fonts.PDFFontPaths = fontPaths
	return NewExporter(cfg, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

// pdfText 读出 PDF 全部文本并去掉空白
func pdfText(t *testing.T, path string) (string, []string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	shows := testutil.PDFText(t, data)
	require.NotEmpty(t, shows)
	return testutil.CompactText(strings.Join(shows, "")), shows
}

// wrapCollection 把单个 TTF 包装成只含一个字体的 TTC
func wrapCollection(face []byte) []byte {
	const headerLen = 16
	out := append([]byte("ttcf"), 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, headerLen)

	shifted := append([]byte(nil), face...)
	numTables := int(binary.BigEndian.Uint16(shifted[4:6]))
	for i := 0; i < numTables; i++ {
		rec := shifted[12+16*i : 12+16*(i+1)]
		binary.BigEndian.PutUint32(rec[8:12], binary.BigEndian.Uint32(rec[8:12])+headerLen)
	}
	return append(out, shifted...)
}

func sampleWorkbook(t *testing.T) string {
	t.Helper()
	return testutil.SaveWorkbook(t, testutil.BuildRows(t, testutil.SampleRows()...), "weekly.xlsx")
}

// docxLines 按段落提取 word/document.xml 中的文本
func docxLines(t *testing.T, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var body []byte
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		body, err = io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
	}
	for _, part := range []string{"[Content_Types].xml", "_rels/.rels", "word/styles.xml", "docProps/core.xml", "word/_rels/document.xml.rels"} {
		assert.True(t, names[part], "missing part %s", part)
	}
	require.NotEmpty(t, body)

	var (
		lines  []string
		cur    strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "p" {
				cur.Reset()
			}
			inText = el.Name.Local == "t"
		case xml.EndElement:
			if el.Name.Local == "p" && cur.Len() > 0 {
				lines = append(lines, cur.String())
			}
			inText = false
		case xml.CharData:
			if inText {
				cur.Write(el)
			}
		}
	}
	return lines
}

func TestRenderPDF_TextMatchesComposedLines(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	src := sampleWorkbook(t)
	dst := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, e.RenderPDF(src, dst, "12", "2025年6月1日"))

	status := e.FontStatus()
	assert.True(t, status.Ready)
	assert.Equal(t, testutil.PDFFont(t), status.Path)

	sheet, err := e.LoadSheet(src)
	require.NoError(t, err)
	doc, err := e.Compose(sheet, "12", "2025年6月1日")
	require.NoError(t, err)

	text, _ := pdfText(t, dst)
	pos := 0
	for _, line := range doc.Lines() {
		want := testutil.CompactText(line)
		if want == "" {
			continue
		}
		idx := strings.Index(text[pos:], want)
		require.GreaterOrEqual(t, idx, 0, "line %q missing or out of order", line)
		pos += idx + len(want)
	}
	assert.Contains(t, text, "一、当周工作情况")
	assert.Contains(t, text, "•招聘：简历通过12份，面试5人，通过3人")
	assert.NotContains(t, text, "........")
}

func TestRenderPDF_HeaderFooter(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	e.cfg.Report.HeaderFooter = true
	dst := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, e.RenderPDF(sampleWorkbook(t), dst, "12", "2025年6月1日"))

	text, shows := pdfText(t, dst)
	assert.Contains(t, shows, "内部资料，严禁外传")
	assert.Regexp(t, `页码：第1页/共\d+页`, strings.Join(shows, "\n"))
	assert.NotContains(t, text, "{nb}")
	assert.Contains(t, text, "北银金融科技有限责任公司产品研发部")
}

func TestRenderPDF_NoFontFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := newExporterWithFonts(t, filepath.Join(dir, "missing.ttf"))

	err := e.RenderPDF(sampleWorkbook(t), filepath.Join(dir, "out.pdf"), "12", "d")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFontUnavailable)
	assert.Contains(t, err.Error(), config.EnvFontPath)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, FormatPDF, renderErr.Format)
	assert.Equal(t, StageSerialize, renderErr.Stage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, e.FontStatus().Ready)

	// DOCX 不依赖字体文件
	require.NoError(t, e.RenderDOCX(sampleWorkbook(t), filepath.Join(dir, "out.docx"), "12", "d"))
}

func TestRenderAll_NoFontWritesNothing(t *testing.T) {
	t.Parallel()

	e := newExporterWithFonts(t)
	sheet, err := e.LoadSheet(sampleWorkbook(t))
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = e.RenderAll(sheet, dir, "12", "d", nil, nil)
	assert.ErrorIs(t, err, ErrFontUnavailable)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderDOCX_MatchesComposedLines(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	src := sampleWorkbook(t)
	dst := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, e.RenderDOCX(src, dst, "12", "2025年6月1日"))

	sheet, err := e.LoadSheet(src)
	require.NoError(t, err)
	doc, err := e.Compose(sheet, "12", "2025年6月1日")
	require.NoError(t, err)

	lines := docxLines(t, dst)
	assert.Equal(t, doc.Lines(), lines)
	assert.Contains(t, lines, "2025 年第 12 期")
	assert.Contains(t, lines, "•招聘：简历通过12份，面试5人，通过3人")
	assert.Contains(t, lines, "•招聘：持续招聘工作")
}

func TestRenderDOCX_Deterministic(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	src := sampleWorkbook(t)
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.docx"), filepath.Join(dir, "b.docx")
	require.NoError(t, e.RenderDOCX(src, a, "1", "d"))
	require.NoError(t, e.RenderDOCX(src, b, "1", "d"))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestRender_MissingColumnsLeavesNoOutput(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	wb := testutil.BuildWorkbook(t, []string{"姓名", "工作类型", "项目名称"}, [][]any{{"张三", "入项", "Alpha"}})
	src := testutil.SaveWorkbook(t, wb, "bad.xlsx")
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.pdf")

	err := e.RenderPDF(src, dst, "1", "d")
	require.Error(t, err)

	var schemaErr *parser.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "项目阶段")

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, FormatPDF, renderErr.Format)
	assert.Equal(t, StageParse, renderErr.Stage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_MissingDepartmentColumn(t *testing.T) {
	t.Parallel()

	headers := make([]string, 0, len(testutil.FullHeaders))
	for _, h := range testutil.FullHeaders {
		if h != "入池部门" {
			headers = append(headers, h)
		}
	}
	wb := testutil.BuildWorkbook(t, headers, [][]any{{"E1", "张三", "入项", "Alpha", "开发", "a", "b", "", 1, 1, 1}})
	src := testutil.SaveWorkbook(t, wb, "nodept.xlsx")
	dir := t.TempDir()

	err := newTestExporter(t).RenderDOCX(src, filepath.Join(dir, "out.docx"), "1", "d")
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregator.ErrMissingDepartmentColumn)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_RequiresIssueAndDate(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	sheet, err := e.LoadSheet(sampleWorkbook(t))
	require.NoError(t, err)

	err = e.Export(ExportOptions{Sheet: sheet, Issue: " ", DateLabel: "d", Format: FormatPDF, Dest: filepath.Join(t.TempDir(), "x.pdf")})
	assert.ErrorIs(t, err, ErrMissingRequestFields)

	err = e.Export(ExportOptions{Sheet: sheet, Issue: "1", DateLabel: "d", Format: "txt", Dest: filepath.Join(t.TempDir(), "x.txt")})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderAll_ProgressAndNames(t *testing.T) {
	t.Parallel()

	e := newTestExporter(t)
	sheet, err := e.LoadSheet(sampleWorkbook(t))
	require.NoError(t, err)

	var events []ProgressEvent
	dir := t.TempDir()
	paths, err := e.RenderAll(sheet, dir, "12", "2025年6月1日", nil, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "产品研发部-综合业务组周报汇总-2025年6月1日.pdf"), paths[0])
	assert.Equal(t, filepath.Join(dir, "产品研发部-综合业务组周报汇总-2025年6月1日.docx"), paths[1])
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	require.NotEmpty(t, events)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Percent, events[i-1].Percent)
	}
	assert.Equal(t, 100, events[len(events)-1].Percent)
}

func TestWriteAtomic_RemovesTempOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.pdf")
	boom := errors.New("boom")

	err := writeAtomic(dest, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" DOCX ")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFontSource_RejectsNonTrueType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fake := filepath.Join(dir, "fake.ttf")
	require.NoError(t, os.WriteFile(fake, []byte("not a font at all"), 0644))
	cff := filepath.Join(dir, "cff.otf")
	require.NoError(t, os.WriteFile(cff, append([]byte("OTTO"), make([]byte, 32)...), 0644))

	status := newFontSource([]string{"", fake, cff}).Status()
	assert.False(t, status.Ready)
	assert.Contains(t, status.Reason, "不是 TrueType 字体")
	assert.Contains(t, status.Reason, "CFF 轮廓字体不受支持")

	status = newFontSource(nil).Status()
	assert.False(t, status.Ready)
	assert.Equal(t, "未配置字体", status.Reason)
}

func TestFontSource_SkipsToNextCandidate(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.ttf")
	status := newFontSource([]string{missing, testutil.PDFFont(t)}).Status()
	assert.True(t, status.Ready)
	assert.Equal(t, testutil.PDFFont(t), status.Path)
}

func TestReadTrueType_Collection(t *testing.T) {
	t.Parallel()

	face, err := os.ReadFile(testutil.PDFFont(t))
	require.NoError(t, err)
	dir := t.TempDir()
	ttc := filepath.Join(dir, "fonts.ttc")
	require.NoError(t, os.WriteFile(ttc, wrapCollection(face), 0644))

	data, err := readTrueType(ttc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, ttfMagic))
	assert.Equal(t, binary.BigEndian.Uint16(face[4:6]), binary.BigEndian.Uint16(data[4:6]))

	e := newExporterWithFonts(t, ttc)
	dst := filepath.Join(dir, "out.pdf")
	require.NoError(t, e.RenderPDF(sampleWorkbook(t), dst, "12", "d"))
	text, _ := pdfText(t, dst)
	assert.Contains(t, text, "一、当周工作情况")
}

func TestReadTrueType_BrokenOrCFFCollection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.ttc")
	require.NoError(t, os.WriteFile(broken, []byte("ttcf\x00\x01\x00\x00"), 0644))
	_, err := readTrueType(broken)
	assert.ErrorIs(t, err, errBadCollection)

	// 思源/Noto CJK 一类集合：内部是 CFF 轮廓
	cffFace := append([]byte("OTTO"), make([]byte, 8)...)
	cff := filepath.Join(dir, "noto.ttc")
	require.NoError(t, os.WriteFile(cff, append([]byte("ttcf\x00\x01\x00\x00\x00\x00\x00\x01\x00\x00\x00\x10"), cffFace...), 0644))
	_, err = readTrueType(cff)
	assert.ErrorIs(t, err, errCFFOutlines)
}
