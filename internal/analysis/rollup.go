package analysis

import (
	"sort"

	"salescope/internal/dataset"
	"salescope/internal/model"
)

// RollupDimension 可做分组汇总的维度
type RollupDimension string

const (
	DimRegion  RollupDimension = "region"
	DimChannel RollupDimension = "channel"
	DimFamily  RollupDimension = "family"
)

// Available 该维度的列是否在当前数据集中解析成功
func (d RollupDimension) Available(schema dataset.Schema) bool {
	switch d {
	case DimRegion:
		return schema.HasRegion
	case DimChannel:
		return schema.HasChannel
	case DimFamily:
		return schema.HasFamily
	}
	return false
}

func (d RollupDimension) key(r *model.SalesRecord) string {
	switch d {
	case DimRegion:
		return r.Region
	case DimChannel:
		return r.Channel
	case DimFamily:
		return r.Family
	}
	return ""
}

// Rollup 按维度取值分组求和
//
// 丢弃该维度缺失值的行与合计为 0 的分组，按合计降序；
// 占比相对保留分组自身的合计（图表各自 100%），不是全量数据。
func Rollup(view []*model.SalesRecord, dim RollupDimension, metric model.Metric) []model.RollupRow {
	sums := make(map[string]float64)
	for _, r := range view {
		k := dim.key(r)
		if k == "" {
			continue
		}
		sums[k] += metric.Value(r)
	}

	rows := make([]model.RollupRow, 0, len(sums))
	var total float64
	for k, v := range sums {
		if v == 0 {
			continue
		}
		rows = append(rows, model.RollupRow{Key: k, Total: v})
		total += v
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Key < rows[j].Key
	})
	if total != 0 {
		for i := range rows {
			rows[i].Percent = rows[i].Total / total * 100
		}
	}
	return rows
}
