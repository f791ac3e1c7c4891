package analysis

import (
	"time"

	"salescope/internal/dataset"
	"salescope/internal/model"
)

// ComputeKPIs 计算当前筛选视图的标量汇总
//
// 纯函数：缺失列的合计按 0 处理，所有比率做除零保护（分母为 0 时取 0）。
func ComputeKPIs(view []*model.SalesRecord, metric model.Metric, schema dataset.Schema) *model.KPISummary {
	k := &model.KPISummary{RowCount: len(view)}

	items := make(map[string]struct{})
	brands := make(map[string]struct{})
	regions := make(map[string]struct{})
	months := make(map[string]struct{})
	var dateMin, dateMax time.Time
	hasDates := false

	for _, r := range view {
		if schema.HasQty {
			k.TotalQty += r.Qty
		}
		if schema.HasReturns {
			k.TotalReturns += r.Returns
		}
		if schema.HasSales {
			k.TotalSales += r.Sales
		}
		if schema.HasDiscount {
			k.TotalDiscount += r.Discount
		}
		k.MetricTotal += metric.Value(r)

		if r.ItemID != "" {
			items[r.ItemID] = struct{}{}
		}
		if r.Brand != "" {
			brands[r.Brand] = struct{}{}
		}
		if r.Region != "" {
			regions[r.Region] = struct{}{}
		}
		if r.HasDate {
			months[r.Date.Format("2006-01")] = struct{}{}
			if !hasDates {
				dateMin, dateMax, hasDates = r.Date, r.Date, true
			} else {
				if r.Date.Before(dateMin) {
					dateMin = r.Date
				}
				if r.Date.After(dateMax) {
					dateMax = r.Date
				}
			}
		}
	}

	k.UniqueItems = len(items)
	k.UniqueBrands = len(brands)
	k.UniqueRegions = len(regions)
	k.MonthCount = len(months)
	if hasDates {
		k.DateMin, k.DateMax = &dateMin, &dateMax
	}

	if k.TotalQty != 0 {
		k.ReturnsPct = k.TotalReturns / k.TotalQty * 100
		k.UnitPrice = k.TotalSales / k.TotalQty
	}
	if k.TotalSales != 0 {
		k.DiscountPct = k.TotalDiscount / k.TotalSales * 100
	}
	if k.UniqueItems > 0 {
		k.MetricAvgPerItem = k.MetricTotal / float64(k.UniqueItems)
	}
	if k.MonthCount > 0 {
		n := float64(k.MonthCount)
		k.MonthlyMetric = k.MetricTotal / n
		k.MonthlyQty = k.TotalQty / n
		k.MonthlyReturns = k.TotalReturns / n
		k.MonthlySales = k.TotalSales / n
	}
	return k
}
