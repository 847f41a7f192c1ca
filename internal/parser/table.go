package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat 不支持的文件格式
var ErrUnsupportedFormat = errors.New("仅支持 xlsx/xls 格式的 Excel 文件")

// ReadTable 从文件读取周报表
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadTableFrom(f, filepath.Base(path))
}

// ReadTableFrom 从 reader 读取周报表，按文件扩展名选择解析方式
func ReadTableFrom(r io.Reader, filename string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readXLSX(data, filename)
	case ".xls":
		return readXLS(data, filename)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readXLSX(data []byte, filename string) (*Table, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadWorkbook(file, filename)
}

// ReadWorkbook 从已打开的工作簿中识别并读取周报表
func ReadWorkbook(file *excelize.File, source string) (*Table, error) {
	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no worksheet found")
	}

	recognizer := NewSheetRecognizer()
	allRows := make([][][]string, len(sheets))
	candidates := make([]SheetRecognitionResult, 0, len(sheets))
	for i, name := range sheets {
		rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		allRows[i] = rows
		if len(rows) == 0 {
			continue
		}
		candidates = append(candidates, recognizer.Recognize(name, i, rows[0]))
	}

	picked, ok := recognizer.Pick(candidates)
	if !ok {
		return nil, errors.New("worksheet is empty")
	}
	rows := allRows[picked.SheetIndex]
	return NewTable(source, picked.SheetName, rows[0], rows[1:]), nil
}

func readXLS(data []byte, filename string) (*Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if wb == nil {
		return nil, errors.New("failed to open xls: workbook stream not found")
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}

	recognizer := NewSheetRecognizer()
	allRows := make([][][]string, wb.NumSheets())
	candidates := make([]SheetRecognitionResult, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		rows := readXLSSheet(sheet)
		allRows[i] = rows
		if len(rows) == 0 {
			continue
		}
		candidates = append(candidates, recognizer.Recognize(sheet.Name, i, rows[0]))
	}

	picked, ok := recognizer.Pick(candidates)
	if !ok {
		return nil, errors.New("worksheet is empty")
	}
	rows := allRows[picked.SheetIndex]
	return NewTable(filename, picked.SheetName, rows[0], rows[1:]), nil
}

// BIFF8 工作表最多 256 列
const xlsMaxCols = 256

func readXLSSheet(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		// ROW 记录的列范围不可靠（缺失时为 0），逐列读取后去掉末尾空单元格
		cells := make([]string, xlsMaxCols)
		for j := range cells {
			cells[j] = row.Col(j)
		}
		n := len(cells)
		for n > 0 && cells[n-1] == "" {
			n--
		}
		rows = append(rows, cells[:n])
	}
	// 去掉末尾空行
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// xlsRow 读取一行，行不存在时返回 nil（WorkSheet.Row 对缺失的行会 panic）
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
