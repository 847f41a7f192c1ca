package exporter

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"weeklyreport/internal/config"
	"weeklyreport/internal/report"
)

const (
	pdfFontFamily = "report"
	pdfMargin     = 72.0
	pdfLeading    = 18.0
	pdfItemIndent = 12.0
	firstLineFill = "　　" // 两个全角空格模拟首行缩进

	pdfFooterNotice = "内部资料，严禁外传"
)

var titleColor = [3]int{0xE6, 0x19, 0x19}

type pdfWriter struct {
	pdf *fpdf.Fpdf
}

func (e *Exporter) writePDF(w io.Writer, doc *report.Document) error {
	status := e.fonts.Status()
	if !status.Ready {
		return fmt.Errorf("%w（%s），请在配置 fonts.pdf_font_paths 或环境变量 %s 中指定字体",
			ErrFontUnavailable, status.Reason, config.EnvFontPath)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCatalogSort(true)
	now := e.now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)

	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", e.fonts.data)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", e.fonts.data)
	pw := &pdfWriter{pdf: pdf}
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(e.cfg.Report.Company, true)

	if e.cfg.Report.HeaderFooter {
		pw.headerFooter(e.cfg.Report.Company + e.cfg.Report.Department)
	}

	pdf.AddPage()
	for _, b := range doc.Blocks {
		pw.block(b)
	}
	if pdf.Err() {
		return fmt.Errorf("生成 PDF 失败: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func (pw *pdfWriter) headerFooter(header string) {
	pdf := pw.pdf
	pdf.AliasNbPages("")
	pdf.SetHeaderFunc(func() {
		pdf.SetY(pdfMargin / 2)
		pdf.SetFont(pdfFontFamily, "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 12, header, "", 0, "C", false, 0, "")
		pdf.SetY(pdfMargin)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin / 2)
		pdf.SetFont(pdfFontFamily, "", 9)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 12, fmt.Sprintf("页码：第%d页/共{nb}页", pdf.PageNo()), "", 0, "L", false, 0, "")
		left, _, _, _ := pdf.GetMargins()
		pdf.SetX(left)
		pdf.CellFormat(0, 12, pdfFooterNotice, "", 0, "R", false, 0, "")
	})
}

func (pw *pdfWriter) font(style string, size float64) {
	pw.pdf.SetFont(pdfFontFamily, style, size)
	pw.pdf.SetTextColor(0, 0, 0)
}

func (pw *pdfWriter) block(b report.Block) {
	pdf := pw.pdf
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	width := pageW - left - right

	switch b.Kind {
	case report.KindTitle:
		pdf.SetFont(pdfFontFamily, "B", 21)
		pdf.SetTextColor(titleColor[0], titleColor[1], titleColor[2])
		pdf.MultiCell(0, 30, b.Text, "", "C", false)
		pdf.Ln(6)
	case report.KindIssue:
		pw.font("", 18)
		pdf.MultiCell(0, 26, b.Text, "", "C", false)
		pdf.Ln(12)
	case report.KindColumns:
		pw.font("", 16)
		colW := width / float64(max(len(b.Cells), 1))
		for i, c := range b.Cells {
			ln := 0
			if i == len(b.Cells)-1 {
				ln = 1
			}
			pdf.CellFormat(colW, 24, c, "", ln, "C", false, 0, "")
		}
		pdf.Ln(8)
	case report.KindDivider:
		y := pdf.GetY()
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(2)
		pdf.Line(left, y, left+width, y)
		pdf.SetLineWidth(0.2)
		pdf.Ln(12)
	case report.KindHeading:
		pw.font("B", 13)
		pdf.MultiCell(0, 20, b.Text, "", "L", false)
		pdf.Ln(6)
	case report.KindSubheading:
		pw.font("B", 11)
		pdf.MultiCell(0, pdfLeading, b.Text, "", "L", false)
	case report.KindParagraph:
		pw.font("", 11)
		pdf.MultiCell(0, pdfLeading, firstLineFill+b.Text, "", "L", false)
		pdf.Ln(4)
	case report.KindItem:
		style := ""
		if b.Bold {
			style = "B"
		}
		pw.font(style, 11)
		pdf.SetX(left + pdfItemIndent)
		pdf.MultiCell(width-pdfItemIndent, pdfLeading, b.Text, "", "L", false)
	case report.KindSpacer:
		pdf.Ln(b.Size)
	}
}
