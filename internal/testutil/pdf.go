package testutil

import (
	"bytes"
	"compress/zlib"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unicode"
	"unicode/utf16"
)

// PDFFont 测试用 TrueType 字体（DejaVu Sans Condensed）
func PDFFont(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(file), "testdata", "DejaVuSansCondensed.ttf")
}

// PDFText 按绘制顺序取出 PDF 页面中的文本片段
//
// 只识别 fpdf 为 UTF-8 字体输出的 "Td (...)Tj" 片段（UTF-16BE）。
func PDFText(t *testing.T, data []byte) []string {
	t.Helper()

	var texts []string
	for _, content := range pdfStreams(data) {
		if !bytes.Contains(content, []byte("Tj ET")) {
			continue
		}
		texts = append(texts, textShows(content)...)
	}
	return texts
}

// CompactText 去掉所有空白（含全角空格），用于比较换行后的文本
func CompactText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func pdfStreams(data []byte) [][]byte {
	var (
		out   [][]byte
		begin = []byte(">>\nstream\n")
		end   = []byte("\nendstream")
	)
	for {
		i := bytes.Index(data, begin)
		if i < 0 {
			return out
		}
		data = data[i+len(begin):]
		j := bytes.Index(data, end)
		if j < 0 {
			return out
		}
		raw := data[:j]
		data = data[j+len(end):]

		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			out = append(out, raw)
			continue
		}
		plain, err := io.ReadAll(zr)
		_ = zr.Close()
		if err != nil {
			continue
		}
		out = append(out, plain)
	}
}

func textShows(content []byte) []string {
	var (
		out  []string
		mark = []byte("Td (")
	)
	for {
		i := bytes.Index(content, mark)
		if i < 0 {
			return out
		}
		content = content[i+len(mark):]

		var raw []byte
		j := 0
		for ; j < len(content); j++ {
			c := content[j]
			if c == ')' {
				break
			}
			if c == '\\' && j+1 < len(content) {
				j++
				switch content[j] {
				case 'r':
					c = '\r'
				case 'n':
					c = '\n'
				default:
					c = content[j]
				}
			}
			raw = append(raw, c)
		}
		content = content[j:]
		if !bytes.HasPrefix(content, []byte(")Tj")) {
			continue
		}
		out = append(out, decodeUTF16BE(raw))
	}
}

func decodeUTF16BE(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}
