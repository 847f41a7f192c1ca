package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weeklyreport/internal/exporter"
	"weeklyreport/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Ready            bool                `json:"ready"`
	Font             exporter.FontStatus `json:"font"`
	PendingDownloads int                 `json:"pendingDownloads"` // 未领取的下载
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Ready:            true,
		Font:             h.exp.FontStatus(),
		PendingDownloads: h.downloads.len(),
	})
}

// ConfigResponse 表单展示用的报告配置
type ConfigResponse struct {
	Company         string   `json:"company"`
	Department      string   `json:"department"`
	Group           string   `json:"group"`
	CatchAllMarker  string   `json:"catchAllMarker"`
	RequiredColumns []string `json:"requiredColumns"`
	Formats         []string `json:"formats"`
}

// GetConfig 获取报告配置
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	id := h.exp.Identity()
	formats := make([]string, 0, len(exporter.Formats))
	for _, f := range exporter.Formats {
		formats = append(formats, string(f))
	}
	c.JSON(http.StatusOK, ConfigResponse{
		Company:         id.Company,
		Department:      id.Department,
		Group:           id.Group,
		CatchAllMarker:  h.exp.Rules().CatchAllMarker,
		RequiredColumns: model.RequiredColumns,
		Formats:         formats,
	})
}
