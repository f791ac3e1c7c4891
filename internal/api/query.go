package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salescope/internal/model"
)

type queryRequest struct {
	Filter model.FilterState `json:"filter"`
	Metric string            `json:"metric"`
}

// Query 一次交互的全量重算
// POST /api/query
//
// 每次筛选或参数变化触发一遍完整管线，产出新的结果集而不是原地修改。
func (h *Handler) Query(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	d, err := h.computeDerived(sess, &req.Filter, req.Metric)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, d)
}
