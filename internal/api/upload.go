package api

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salescope/internal/config"
	"salescope/internal/dataset"
)

type uploadResponse struct {
	SessionID  string            `json:"sessionId"`
	Filename   string            `json:"filename"`
	TxRows     int               `json:"txRows"`
	MasterRows int               `json:"masterRows"`
	Unmatched  int               `json:"unmatched"`
	Schema     map[string]bool   `json:"schema"`
	Metrics    []string          `json:"metrics"`
	DateMin    *time.Time        `json:"dateMin"`
	DateMax    *time.Time        `json:"dateMax"`
}

// Upload 上传 SQLite 快照并建立会话数据集
// POST /api/upload
//
// 必需表不可读或连接键无法解析对本次会话是致命的：不建立数据集，
// 返回解释性错误，不渲染部分看板。
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".db", ".sqlite", ".sqlite3":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 .db / .sqlite / .sqlite3 文件"})
		return
	}

	savePath := config.GetDataPath(h.cfg, "uploads", uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存上传文件失败: " + err.Error()})
		return
	}

	ds, err := dataset.Load(savePath, h.cfg.Data.TxTable, h.cfg.Data.MasterTable)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := h.sessions.Create()
	sess.SetDataset(ds)

	resp := uploadResponse{
		SessionID:  sess.ID,
		Filename:   file.Filename,
		TxRows:     ds.TxRows,
		MasterRows: ds.MasterRows,
		Unmatched:  ds.Unmatched,
		Metrics:    ds.Schema.AvailableMetrics(),
		Schema: map[string]bool{
			"itemName": ds.Schema.HasItemName,
			"brand":    ds.Schema.HasBrand,
			"category": ds.Schema.HasCategory,
			"region":   ds.Schema.HasRegion,
			"channel":  ds.Schema.HasChannel,
			"family":   ds.Schema.HasFamily,
			"date":     ds.Schema.HasDate,
			"qty":      ds.Schema.HasQty,
			"returns":  ds.Schema.HasReturns,
			"sales":    ds.Schema.HasSales,
			"discount": ds.Schema.HasDiscount,
		},
	}
	if min, max, ok := ds.DateBounds(); ok {
		resp.DateMin, resp.DateMax = &min, &max
	}

	c.JSON(http.StatusOK, resp)
}
