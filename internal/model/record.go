package model

import "time"

// SalesRecord 合并后的单行销售事实
//
// 交易表与商品主数据左外连接的产物：维度字段解析失败时为空串，
// 数值字段解析失败时为 0。ItemID 取主数据侧的值，未匹配行为空，
// 从而被商品级聚合与分类排除。
type SalesRecord struct {
	ItemID   string
	ItemName string
	Brand    string
	Category string
	Region   string
	Channel  string
	Family   string

	// HasDate 为 false 时 Date 无意义，该行不参与任何按日期的计算
	Date    time.Time
	HasDate bool

	Qty      float64
	Returns  float64
	Sales    float64
	Discount float64
}

// DisplayLabel 商品展示名："编码 - 名称"，无名称时退化为编码
func (r *SalesRecord) DisplayLabel() string {
	if r.ItemName == "" {
		return r.ItemID
	}
	return r.ItemID + " - " + r.ItemName
}

// Metric 分析口径：所有聚合、分类与预测共用同一个取值函数
type Metric string

const (
	MetricQuantity Metric = "quantity"
	MetricSales    Metric = "sales"
)

// Value 从记录取出该口径的数值
func (m Metric) Value(r *SalesRecord) float64 {
	if m == MetricSales {
		return r.Sales
	}
	return r.Qty
}

// Label 口径的展示名
func (m Metric) Label() string {
	if m == MetricSales {
		return "销售额"
	}
	return "销量"
}
