// Package api 周报生成 HTTP 接口
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"weeklyreport/internal/config"
	"weeklyreport/internal/exporter"
)

// Handler API 处理器
type Handler struct {
	cfg       *config.AppConfig
	exp       *exporter.Exporter
	log       zerolog.Logger
	exportDir string
	downloads *downloadStore
	janitor   *janitor
}

// NewHandler 创建 API 处理器，exportDir 存放待下载的报告
func NewHandler(cfg *config.AppConfig, exp *exporter.Exporter, log zerolog.Logger, exportDir string) (*Handler, error) {
	downloads := newDownloadStore()
	j, err := newJanitor(cfg.Data.JanitorSpec, downloads, log)
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:       cfg,
		exp:       exp,
		log:       log,
		exportDir: exportDir,
		downloads: downloads,
		janitor:   j,
	}, nil
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 报告抬头
	router.GET("/config", h.GetConfig)

	// 上传预览
	router.POST("/preview", h.Preview)

	// 生成与下载
	router.POST("/reports/stream", h.ReportStream)
	router.GET("/reports/download/:token", h.DownloadReport)
}

// Start 启动过期下载清理
func (h *Handler) Start() { h.janitor.Start() }

// Close 停止清理任务
func (h *Handler) Close() { h.janitor.Stop() }

func (h *Handler) downloadTTL() time.Duration {
	minutes := h.cfg.Data.DownloadTTLMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}
