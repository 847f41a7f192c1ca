package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weeklyreport/internal/exporter"
	"weeklyreport/internal/parser"
)

type reportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// DownloadLink 单个格式的下载地址
type DownloadLink struct {
	Format   exporter.Format `json:"format"`
	FileName string          `json:"fileName"`
	URL      string          `json:"url"`
}

// ReportStream 生成周报（SSE 进度 + 完成后提供下载地址）
// POST /api/reports/stream
func (h *Handler) ReportStream(c *gin.Context) {
	issue := strings.TrimSpace(c.PostForm("issue"))
	dateLabel := strings.TrimSpace(c.PostForm("date"))
	if issue == "" || dateLabel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": exporter.ErrMissingRequestFields.Error()})
		return
	}
	formats, err := parseFormats(c.PostForm("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	renderID := uuid.New().String()
	log := h.log.With().Str("render_id", renderID).Logger()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event reportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	fail := func(msg string, data map[string]any, err error) {
		log.Error().Err(err).Msg("report render failed")
		if data == nil {
			data = map[string]any{}
		}
		send(reportProgressEvent{Type: "error", Message: msg, Data: data, Timestamp: time.Now()})
	}

	send(reportProgressEvent{
		Type:    "start",
		Message: "开始生成",
		Data: map[string]any{
			"renderId": renderID,
			"fileName": up.FileName,
			"issue":    issue,
			"date":     dateLabel,
		},
		Timestamp: time.Now(),
	})

	sheet, warnings, err := h.exp.LoadSheetFrom(bytes.NewReader(up.Bytes), up.FileName)
	if err != nil {
		var schemaErr *parser.SchemaError
		if errors.As(err, &schemaErr) {
			fail(schemaErr.Error(), map[string]any{"missing": schemaErr.Missing}, err)
			return
		}
		fail("文件解析失败: "+err.Error(), nil, err)
		return
	}
	log.Info().Int("rows", len(sheet.Entries)).Int("warnings", len(warnings)).Msg("sheet parsed")

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(reportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent, "format": p.Format},
			Timestamp: time.Now(),
		})
	}
	progressFn(exporter.ProgressEvent{Percent: 10, Stage: exporter.StageParse})

	dir := filepath.Join(h.exportDir, renderID)
	paths, err := h.exp.RenderAll(sheet, dir, issue, dateLabel, formats, progressFn)
	if err != nil {
		_ = os.Remove(dir)
		fail("生成失败: "+err.Error(), nil, err)
		return
	}

	links := make([]DownloadLink, 0, len(paths))
	for i, p := range paths {
		name := filepath.Base(p)
		token := h.downloads.put(p, name, formats[i], h.downloadTTL())
		links = append(links, DownloadLink{
			Format:   formats[i],
			FileName: name,
			URL:      "/api/reports/download/" + token,
		})
	}
	log.Info().Int("files", len(links)).Msg("report ready")

	send(reportProgressEvent{
		Type:    "done",
		Message: "生成完成",
		Data: map[string]any{
			"percent":   100,
			"renderId":  renderID,
			"downloads": links,
			"expiresAt": time.Now().Add(h.downloadTTL()).Format(time.RFC3339),
		},
		Timestamp: time.Now(),
	})
}

// parseFormats 空值或 all 表示全部格式
func parseFormats(raw string) ([]exporter.Format, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return exporter.Formats, nil
	}
	f, err := exporter.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	return []exporter.Format{f}, nil
}

// DownloadReport 下载生成的周报（一次性）
// GET /api/reports/download/:token
func (h *Handler) DownloadReport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "报告文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.fileName, item.format))
	c.Header("Content-Type", item.format.ContentType())
	c.File(item.filePath)

	removeReportFile(item.filePath)
}

// buildContentDisposition ASCII 文件名兜底 + RFC 5987 UTF-8 文件名
func buildContentDisposition(fileName string, format exporter.Format) string {
	fallback := fmt.Sprintf("weekly-report.%s", format)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", fallback, url.PathEscape(fileName))
}
