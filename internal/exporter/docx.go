package exporter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"weeklyreport/internal/report"
)

const (
	nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	docxTitleColor = "E61919"
	twipsPerPoint  = 20
	firstLineTwips = "567" // 1cm
	itemIndentTwip = "240" // 12pt
	a4WidthTwips   = 11906
	a4HeightTwips  = 16838
	marginTwips    = 1440
)

// WordprocessingML 元素，仅覆盖周报用到的部分

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Content []any   // *wParagraph / *wTable
	SectPr  wSectPr `xml:"w:sectPr"`
}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wOn struct{}

type wParagraph struct {
	XMLName xml.Name `xml:"w:p"`
	Props   *wPPr    `xml:"w:pPr,omitempty"`
	Runs    []wRun   `xml:"w:r"`
}

type wPPr struct {
	Border  *wPBdr    `xml:"w:pBdr,omitempty"`
	Spacing *wSpacing `xml:"w:spacing,omitempty"`
	Ind     *wInd     `xml:"w:ind,omitempty"`
	Jc      *wVal     `xml:"w:jc,omitempty"`
}

type wPBdr struct {
	Bottom wBorder `xml:"w:bottom"`
}

type wBorder struct {
	Val   string `xml:"w:val,attr"`
	Sz    string `xml:"w:sz,attr"`
	Space string `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type wSpacing struct {
	Before string `xml:"w:before,attr,omitempty"`
	After  string `xml:"w:after,attr,omitempty"`
}

type wInd struct {
	Left      string `xml:"w:left,attr,omitempty"`
	FirstLine string `xml:"w:firstLine,attr,omitempty"`
}

type wRun struct {
	Props *wRPr `xml:"w:rPr,omitempty"`
	Text  wText `xml:"w:t"`
}

type wRPr struct {
	Bold   *wOn  `xml:"w:b,omitempty"`
	Color  *wVal `xml:"w:color,omitempty"`
	Size   *wVal `xml:"w:sz,omitempty"`
	SizeCs *wVal `xml:"w:szCs,omitempty"`
}

type wText struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

type wTable struct {
	XMLName xml.Name `xml:"w:tbl"`
	Props   wTblPr   `xml:"w:tblPr"`
	Grid    []wWidth `xml:"w:tblGrid>w:gridCol"`
	Rows    []wRow   `xml:"w:tr"`
}

type wTblPr struct {
	Width wWidth `xml:"w:tblW"`
	Jc    wVal   `xml:"w:jc"`
}

type wWidth struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr,omitempty"`
}

type wRow struct {
	Cells []wCell `xml:"w:tc"`
}

type wCell struct {
	Props      wTcPr        `xml:"w:tcPr"`
	Paragraphs []wParagraph `xml:"w:p"`
}

type wTcPr struct {
	Width wWidth `xml:"w:tcW"`
}

type wSectPr struct {
	PgSz  wPgSz  `xml:"w:pgSz"`
	PgMar wPgMar `xml:"w:pgMar"`
}

type wPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type wPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

func halfPoints(pt float64) *wVal {
	return &wVal{Val: strconv.Itoa(int(pt * 2))}
}

func run(text string, size float64, bold bool, color string) wRun {
	props := &wRPr{Size: halfPoints(size), SizeCs: halfPoints(size)}
	if bold {
		props.Bold = &wOn{}
	}
	if color != "" {
		props.Color = &wVal{Val: color}
	}
	return wRun{Props: props, Text: wText{Space: "preserve", Value: text}}
}

func paragraph(props *wPPr, runs ...wRun) *wParagraph {
	return &wParagraph{Props: props, Runs: runs}
}

func centered() *wPPr {
	return &wPPr{Jc: &wVal{Val: "center"}}
}

// docxBody 将结构块转换为 WordprocessingML 元素
func docxBody(doc *report.Document) []any {
	var content []any
	for _, b := range doc.Blocks {
		switch b.Kind {
		case report.KindTitle:
			content = append(content, paragraph(centered(), run(b.Text, 21, true, docxTitleColor)))
		case report.KindIssue:
			p := centered()
			p.Spacing = &wSpacing{Before: "120", After: "240"}
			content = append(content, paragraph(p, run(b.Text, 18, false, "")))
		case report.KindColumns:
			content = append(content, columnsTable(b.Cells))
		case report.KindDivider:
			content = append(content, paragraph(&wPPr{
				Border: &wPBdr{Bottom: wBorder{Val: "single", Sz: "16", Space: "1", Color: "000000"}},
			}))
		case report.KindHeading:
			content = append(content, paragraph(&wPPr{Spacing: &wSpacing{Before: "240", After: "120"}},
				run(b.Text, 13, true, "")))
		case report.KindSubheading:
			content = append(content, paragraph(nil, run(b.Text, 11, true, "")))
		case report.KindParagraph:
			content = append(content, paragraph(&wPPr{Ind: &wInd{FirstLine: firstLineTwips}},
				run(b.Text, 11, false, "")))
		case report.KindItem:
			content = append(content, paragraph(&wPPr{Ind: &wInd{Left: itemIndentTwip}},
				run(b.Text, 11, b.Bold, "")))
		case report.KindSpacer:
			after := strconv.Itoa(int(b.Size * twipsPerPoint))
			content = append(content, paragraph(&wPPr{Spacing: &wSpacing{After: after}}))
		}
	}
	return content
}

func columnsTable(cells []string) *wTable {
	n := max(len(cells), 1)
	colW := strconv.Itoa((a4WidthTwips - 2*marginTwips) / n)
	row := wRow{}
	tbl := &wTable{
		Props: wTblPr{Width: wWidth{W: "5000", Type: "pct"}, Jc: wVal{Val: "center"}},
	}
	for _, c := range cells {
		tbl.Grid = append(tbl.Grid, wWidth{W: colW})
		row.Cells = append(row.Cells, wCell{
			Props:      wTcPr{Width: wWidth{W: colW, Type: "dxa"}},
			Paragraphs: []wParagraph{*paragraph(centered(), run(c, 16, false, ""))},
		})
	}
	tbl.Rows = []wRow{row}
	return tbl
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

// Normal 样式：东亚字体、1.5 倍行距、11pt
const stylesXMLFormat = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:eastAsia="%[1]s" w:cs="%[1]s"/><w:sz w:val="22"/><w:szCs w:val="22"/><w:lang w:val="en-US" w:eastAsia="zh-CN"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="360" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/>
<w:rPr><w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:eastAsia="%[1]s"/></w:rPr></w:style>
<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/>
<w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>
</w:styles>`

const coreXMLFormat = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>%s</dc:title>
<dc:creator>%s</dc:creator>
<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func marshalDocument(doc *report.Document) ([]byte, error) {
	d := wDocument{
		W: nsW,
		R: nsR,
		Body: wBody{
			Content: docxBody(doc),
			SectPr: wSectPr{
				PgSz: wPgSz{W: a4WidthTwips, H: a4HeightTwips},
				PgMar: wPgMar{
					Top: marginTwips, Right: marginTwips, Bottom: marginTwips, Left: marginTwips,
					Header: 851, Footer: 992,
				},
			},
		},
	}
	data, err := xml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("生成 document.xml 失败: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func (e *Exporter) writeDOCX(w io.Writer, doc *report.Document) error {
	body, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	font := e.cfg.Fonts.DocxFont
	if font == "" {
		font = "宋体"
	}
	now := e.now().UTC()
	stamp := now.Format(time.RFC3339)

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/document.xml", body},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(fmt.Sprintf(stylesXMLFormat, escapeXML(font)))},
		{"docProps/core.xml", []byte(fmt.Sprintf(coreXMLFormat,
			escapeXML(doc.Title), escapeXML(e.cfg.Report.Company), stamp, stamp))},
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return fmt.Errorf("写入 %s 失败: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("写入 DOCX 失败: %w", err)
	}
	return nil
}
