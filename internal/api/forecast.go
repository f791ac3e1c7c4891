package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salescope/internal/analysis"
	"salescope/internal/model"
)

type forecastRequest struct {
	Filter model.FilterState       `json:"filter"`
	Metric string                  `json:"metric"`
	Params analysis.ForecastParams `json:"params"`
}

// Forecast 预测管线
// POST /api/forecast
//
// 拟合失败作为结果里的非致命 Warning 返回（HTTP 200），看板其余部分不受影响；
// 训练窗口不足 12 个月时返回跳过原因而不是错误。
func (h *Handler) Forecast(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	if req.Params.TrendMode == "" {
		req.Params.TrendMode = h.cfg.Forecast.TrendMode
	}
	if req.Params.SeasonalMode == "" {
		req.Params.SeasonalMode = h.cfg.Forecast.SeasonalMode
	}
	if req.Params.Horizon == 0 {
		req.Params.Horizon = h.cfg.Forecast.DefaultHorizon
	}

	d, err := h.computeDerived(sess, &req.Filter, req.Metric)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !d.HasMetric {
		c.JSON(http.StatusOK, &model.ForecastResult{
			Skipped:    true,
			SkipReason: "未找到可用的数值口径列，无法预测",
		})
		return
	}

	result := analysis.RunForecast(d.view, d.Metric, req.Params)
	c.JSON(http.StatusOK, result)
}
