package api

import (
	"github.com/gin-gonic/gin"

	"salescope/internal/analysis"
	"salescope/internal/config"
	"salescope/internal/dataset"
	"salescope/internal/model"
	"salescope/internal/session"
)

// Handler API 处理器
type Handler struct {
	cfg      *config.AppConfig
	sessions *session.Manager
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig) *Handler {
	return &Handler{
		cfg:      cfg,
		sessions: session.NewManager(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据上传（SQLite 快照）
	router.POST("/upload", h.Upload)

	// 筛选控件候选与商品搜索
	router.POST("/options", h.GetOptions)
	router.GET("/items/search", h.SearchItems)

	// 一次交互的全量重算：KPI / 分组汇总 / ABC-XYZ / 趋势 / 季节指数
	router.POST("/query", h.Query)

	// 预测
	router.POST("/forecast", h.Forecast)

	// 结果导出
	router.POST("/export/workbook", h.ExportWorkbook)
	router.POST("/export/:table", h.ExportTable)
}

// Sessions 会话管理器（用于测试）
func (h *Handler) Sessions() *session.Manager {
	return h.sessions
}

// currentSession 按请求头定位会话，头缺省时退回最近会话
func (h *Handler) currentSession(c *gin.Context) (*session.Session, error) {
	return h.sessions.Get(c.GetHeader("X-Session-Id"))
}

// derivedViews 一次筛选交互派生出的全部结果
//
// 纯函数管线 FilterState → 过滤视图 → {KPI, 汇总, 分类, 趋势, 季节指数}，
// 按指纹整体缓存；能力缺失的部分留空并追加提示消息。
type derivedViews struct {
	Metric    model.Metric               `json:"metric"`
	HasMetric bool                       `json:"hasMetric"`
	KPI       *model.KPISummary          `json:"kpi"`
	Region    []model.RollupRow          `json:"region"`
	Channel   []model.RollupRow          `json:"channel"`
	Family    []model.RollupRow          `json:"family"`
	Class     *model.Classification      `json:"classification"`
	Trend     []model.TrendPoint         `json:"trend"`
	Seasonal  []model.SeasonalIndexEntry `json:"seasonal"`
	Messages  []string                   `json:"messages"`

	view []*model.SalesRecord
}

// resolveMetric 解析请求口径，缺省取数据集默认口径
func resolveMetric(schema dataset.Schema, requested string) (model.Metric, bool) {
	switch requested {
	case string(model.MetricQuantity):
		if schema.HasQty {
			return model.MetricQuantity, true
		}
	case string(model.MetricSales):
		if schema.HasSales {
			return model.MetricSales, true
		}
	case "":
		if d := schema.DefaultMetric(); d != "" {
			return model.Metric(d), true
		}
	}
	return model.MetricQuantity, false
}

// computeDerived 执行一次全量重算（或命中缓存）
func (h *Handler) computeDerived(sess *session.Session, f *model.FilterState, metricName string) (*derivedViews, error) {
	ds := sess.Dataset()
	if ds == nil {
		return nil, session.ErrNoSession
	}

	metric, hasMetric := resolveMetric(ds.Schema, metricName)
	fingerprint := f.Fingerprint(metric)
	if cached, ok := sess.CachedView(fingerprint); ok {
		return cached.(*derivedViews), nil
	}

	view := analysis.ApplyFilters(analysis.BaseView(ds), f)
	d := &derivedViews{Metric: metric, HasMetric: hasMetric, view: view}

	d.KPI = analysis.ComputeKPIs(view, metric, ds.Schema)

	if !hasMetric {
		d.Messages = append(d.Messages, "未找到可用的数值口径列（qty_soldx / sold_amount / sales），相关图表已跳过")
	} else {
		for _, dim := range []analysis.RollupDimension{analysis.DimRegion, analysis.DimChannel, analysis.DimFamily} {
			if !dim.Available(ds.Schema) {
				d.Messages = append(d.Messages, "维度 "+string(dim)+" 的列不存在，对应图表已跳过")
				continue
			}
			rows := analysis.Rollup(view, dim, metric)
			switch dim {
			case analysis.DimRegion:
				d.Region = rows
			case analysis.DimChannel:
				d.Channel = rows
			case analysis.DimFamily:
				d.Family = rows
			}
		}

		d.Class = analysis.Classify(view, metric)
		if d.Class == nil {
			d.Messages = append(d.Messages, "当前筛选下没有正合计的商品数据，无法计算 ABC-XYZ 分类")
		} else if d.Class.XYZDegraded {
			d.Messages = append(d.Messages, "没有可用的日期粒度度量需求波动，XYZ 全部按 Z 兜底")
		}

		if ds.Schema.HasDate {
			d.Trend = analysis.MonthlyTrend(view, metric)
			if entries, ok := analysis.SeasonalIndex(view, metric); ok {
				d.Seasonal = entries
			} else {
				d.Messages = append(d.Messages, "数据不足以计算季节指数")
			}
			if len(d.Trend) == 0 {
				d.Messages = append(d.Messages, "当前筛选下没有有效日期，趋势图已跳过")
			}
		} else {
			d.Messages = append(d.Messages, "日期列不存在，趋势 / 季节指数 / 预测不可用")
		}
	}

	sess.StoreView(fingerprint, d)
	sess.RememberFilter(f)
	return d, nil
}
