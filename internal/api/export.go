package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"salescope/internal/analysis"
	"salescope/internal/export"
	"salescope/internal/model"
)

type exportRequest struct {
	Filter model.FilterState       `json:"filter"`
	Metric string                  `json:"metric"`
	Params analysis.ForecastParams `json:"params"`
}

// buildTable 按表名重算并组装对应的导出表
func (h *Handler) buildTable(c *gin.Context, name string) (*export.Table, error) {
	sess, err := h.currentSession(c)
	if err != nil {
		return nil, err
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("请求格式错误")
	}

	d, err := h.computeDerived(sess, &req.Filter, req.Metric)
	if err != nil {
		return nil, err
	}

	switch name {
	case "kpi":
		return export.KPITable(d.KPI, d.Metric), nil
	case "region":
		return export.RollupTable("Region", d.Region), nil
	case "channel":
		return export.RollupTable("Sales Channel", d.Channel), nil
	case "family":
		return export.RollupTable("Family", d.Family), nil
	case "items":
		if d.Class == nil {
			return nil, fmt.Errorf("当前筛选下没有分类结果可导出")
		}
		return export.ItemsTable(analysis.SortedForDisplay(d.Class.Items)), nil
	case "matrix":
		if d.Class == nil {
			return nil, fmt.Errorf("当前筛选下没有分类结果可导出")
		}
		return export.MatrixTable(d.Class.Matrix), nil
	case "trend":
		return export.TrendTable(d.Trend), nil
	case "seasonal":
		return export.SeasonalTable(d.Seasonal), nil
	case "forecast", "yearly":
		result := analysis.RunForecast(d.view, d.Metric, req.Params)
		if result.Skipped {
			return nil, fmt.Errorf("预测已跳过: %s", result.SkipReason)
		}
		if result.Warning != "" {
			return nil, fmt.Errorf("%s", result.Warning)
		}
		if name == "yearly" {
			return export.YearlyTable(result.Yearly), nil
		}
		return export.ForecastTable(result.Series), nil
	case "data":
		return export.FilteredDataTable(d.view, sess.Dataset().Schema), nil
	}
	return nil, fmt.Errorf("未知的导出表: %s", name)
}

// ExportTable 导出单个结果表为 CSV
// POST /api/export/:table
func (h *Handler) ExportTable(c *gin.Context) {
	name := c.Param("table")
	t, err := h.buildTable(c, name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 CSV 失败: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportWorkbook 导出全部结果表为一个工作簿
// POST /api/export/workbook
func (h *Handler) ExportWorkbook(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	d, err := h.computeDerived(sess, &req.Filter, req.Metric)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tables := []*export.Table{
		export.KPITable(d.KPI, d.Metric),
		export.RollupTable("Region", d.Region),
		export.RollupTable("Sales Channel", d.Channel),
		export.RollupTable("Family", d.Family),
		export.TrendTable(d.Trend),
		export.SeasonalTable(d.Seasonal),
	}
	if d.Class != nil {
		tables = append(tables,
			export.ItemsTable(analysis.SortedForDisplay(d.Class.Items)),
			export.MatrixTable(d.Class.Matrix))
	}
	// 预测失败不阻塞其它 sheet 的导出
	if result := analysis.RunForecast(d.view, d.Metric, req.Params); !result.Skipped && result.Warning == "" {
		tables = append(tables,
			export.ForecastTable(result.Series),
			export.YearlyTable(result.Yearly))
	}

	f, err := export.BuildWorkbook(tables)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成工作簿失败: " + err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", "attachment; filename=salescope_export.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
