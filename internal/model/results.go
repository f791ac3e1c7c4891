package model

import "time"

// KPISummary 当前筛选视图的标量汇总
//
// 缺失列的合计为 0；所有比率做了除零保护，分母为 0 时保持零值。
type KPISummary struct {
	TotalQty      float64 `json:"totalQty"`
	TotalReturns  float64 `json:"totalReturns"`
	TotalSales    float64 `json:"totalSales"`
	TotalDiscount float64 `json:"totalDiscount"`

	ReturnsPct  float64 `json:"returnsPct"`
	DiscountPct float64 `json:"discountPct"`
	UnitPrice   float64 `json:"unitPrice"`

	MetricTotal      float64 `json:"metricTotal"`
	MetricAvgPerItem float64 `json:"metricAvgPerItem"`

	RowCount      int `json:"rowCount"`
	UniqueItems   int `json:"uniqueItems"`
	UniqueBrands  int `json:"uniqueBrands"`
	UniqueRegions int `json:"uniqueRegions"`

	// MonthCount 视图内不同自然月的个数，月均值的分母
	MonthCount     int     `json:"monthCount"`
	MonthlyMetric  float64 `json:"monthlyMetric"`
	MonthlyQty     float64 `json:"monthlyQty"`
	MonthlyReturns float64 `json:"monthlyReturns"`
	MonthlySales   float64 `json:"monthlySales"`

	DateMin *time.Time `json:"dateMin"`
	DateMax *time.Time `json:"dateMax"`
}

// RollupRow 维度分组汇总的一行
type RollupRow struct {
	Key     string  `json:"key"`
	Total   float64 `json:"total"`
	Percent float64 `json:"percent"`
}

// ClassifiedItem 单个商品的 ABC-XYZ 分类结果
type ClassifiedItem struct {
	ItemID      string  `json:"itemId"`
	Display     string  `json:"display"`
	MetricTotal float64 `json:"metricTotal"`

	SharePct      float64 `json:"sharePct"`
	CumulativePct float64 `json:"cumulativePct"`
	ABC           string  `json:"abc"`

	// HasCV 为 false 表示该商品无日期观测，XYZ 为兜底的 Z
	CV    float64 `json:"cv"`
	HasCV bool    `json:"hasCv"`
	XYZ   string  `json:"xyz"`
}

// MatrixCell ABC-XYZ 交叉矩阵的一个单元格
type MatrixCell struct {
	ABC          string  `json:"abc"`
	XYZ          string  `json:"xyz"`
	ItemCount    int     `json:"itemCount"`
	MetricTotal  float64 `json:"metricTotal"`
	SharePct     float64 `json:"sharePct"`
	ItemsPreview string  `json:"itemsPreview"`
}

// Classification ABC-XYZ 分类的完整结果
type Classification struct {
	Items  []ClassifiedItem `json:"items"`
	Matrix []MatrixCell     `json:"matrix"`

	// XYZDegraded 为 true 表示没有可用日期，XYZ 全部为兜底的 Z
	XYZDegraded bool `json:"xyzDegraded"`
}

// TrendPoint 月度趋势的一个点（Month 为自然月起始，UTC）
type TrendPoint struct {
	Month time.Time `json:"month"`
	Value float64   `json:"value"`
}

// SeasonalIndexEntry 某个自然月份的季节指数
type SeasonalIndexEntry struct {
	MonthNum   int     `json:"monthNum"`
	MonthLabel string  `json:"monthLabel"`
	AvgMetric  float64 `json:"avgMetric"`
	Index      float64 `json:"index"`
}

// SeriesType 序列点或年度行的来源标记
type SeriesType string

const (
	SeriesActual   SeriesType = "Actual"
	SeriesForecast SeriesType = "Forecast"
	// SeriesBlended 年内同时含实际与预测月份
	SeriesBlended SeriesType = "Actual+Forecast"
)

// ForecastPoint 实际或预测序列的一个月度点
type ForecastPoint struct {
	Month time.Time  `json:"month"`
	Value float64    `json:"value"`
	Type  SeriesType `json:"type"`
}

// YearlyGrowthRow 年度合计与链式同比
type YearlyGrowthRow struct {
	Year  int        `json:"year"`
	Type  SeriesType `json:"type"`
	Total float64    `json:"total"`

	// YoYPercent 首年或上一年合计为 0 时无定义，为 nil
	YoYPercent *float64 `json:"yoyPercent"`
}

// ForecastResult 预测管线的完整输出
//
// Skipped 表示前置条件不满足（训练月不足等），SkipReason 给出解释；
// Warning 表示拟合阶段出错，预测被放弃但不影响其它结果。
type ForecastResult struct {
	Series []ForecastPoint   `json:"series"`
	Yearly []YearlyGrowthRow `json:"yearly"`

	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skipReason,omitempty"`
	Warning    string `json:"warning,omitempty"`
}
