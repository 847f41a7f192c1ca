package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"weeklyreport/internal/aggregator"
	"weeklyreport/internal/model"
	"weeklyreport/internal/parser"
	"weeklyreport/internal/report"
)

type uploadedFile struct {
	FileName string
	Bytes    []byte
}

// readUpload 读取 multipart 中的 file 字段，失败时已写入响应
func (h *Handler) readUpload(c *gin.Context) (*uploadedFile, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请上传文件"})
		return nil, false
	}
	defer file.Close()

	maxSize := h.cfg.Data.MaxUploadSizeMB * 1024 * 1024
	if maxSize > 0 && header.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件过大"})
		return nil, false
	}

	// 检查文件格式
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".xlsx" && ext != ".xlsm" && ext != ".xls" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 .xlsx 和 .xls 格式"})
		return nil, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取文件失败"})
		return nil, false
	}
	return &uploadedFile{FileName: header.Filename, Bytes: content}, true
}

// parseUpload 解析上传内容；表头缺失时返回 400 与缺失字段
func (h *Handler) parseUpload(c *gin.Context, up *uploadedFile) (*model.WeeklySheet, []parser.CoercionWarning, bool) {
	sheet, warnings, err := h.exp.LoadSheetFrom(bytes.NewReader(up.Bytes), up.FileName)
	if err != nil {
		var schemaErr *parser.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": schemaErr.Error(), "missing": schemaErr.Missing})
			return nil, nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件解析失败: " + err.Error()})
		return nil, nil, false
	}
	return sheet, warnings, true
}

// PreviewResponse 上传预览
type PreviewResponse struct {
	FileName      string                  `json:"fileName"`
	Columns       []string                `json:"columns"`
	RowCount      int                     `json:"rowCount"`
	HasDepartment bool                    `json:"hasDepartment"`
	Warnings      int                     `json:"warnings"` // 数字列被置 0 的单元格数
	Entries       []model.NormalizedEntry `json:"entries"`
	Indicators    []aggregator.Indicator  `json:"indicators,omitempty"`
	Document      *report.Document        `json:"document,omitempty"` // 填写期数和日期时返回报告结构
	Notice        string                  `json:"notice,omitempty"`
}

// Preview 上传后预览数据
// POST /api/preview
func (h *Handler) Preview(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}
	sheet, warnings, ok := h.parseUpload(c, up)
	if !ok {
		return
	}

	resp := PreviewResponse{
		FileName:      up.FileName,
		Columns:       sheet.Columns,
		RowCount:      len(sheet.Entries),
		HasDepartment: sheet.HasDepartment,
		Warnings:      len(warnings),
		Entries:       sheet.Entries,
	}
	view, err := aggregator.Build(sheet, h.exp.Rules())
	if err != nil {
		resp.Notice = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resp.Indicators = view.Indicators()

	issue, dateLabel := strings.TrimSpace(c.PostForm("issue")), strings.TrimSpace(c.PostForm("date"))
	if issue != "" && dateLabel != "" {
		doc, err := h.exp.Compose(sheet, issue, dateLabel)
		if err != nil {
			resp.Notice = err.Error()
		} else {
			resp.Document = doc
		}
	}
	c.JSON(http.StatusOK, resp)
}
