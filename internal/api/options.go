package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salescope/internal/analysis"
	"salescope/internal/model"
)

type optionsRequest struct {
	Filter     model.FilterState `json:"filter"`
	ItemSearch string            `json:"itemSearch"`
}

// GetOptions 计算各筛选控件的候选值
// POST /api/options
//
// 候选逐级收窄（与侧栏控件联动一致），日期边界取未筛选全表。
func (h *Handler) GetOptions(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ds := sess.Dataset()
	if ds == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "尚未上传数据"})
		return
	}

	var req optionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	c.JSON(http.StatusOK, analysis.BuildOptions(ds, &req.Filter, req.ItemSearch))
}

// SearchItems 商品候选搜索
// GET /api/items/search?q=
//
// 搜索只收窄候选列表，不应用任何筛选；无命中时退回完整列表。
func (h *Handler) SearchItems(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ds := sess.Dataset()
	if ds == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "尚未上传数据"})
		return
	}

	choices := analysis.ItemChoices(analysis.BaseView(ds))
	result, matched := analysis.SearchItems(choices, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"items":   result,
		"matched": matched,
	})
}
