package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"salescope/internal/model"
)

// classifyABC 按累计贡献百分比定级（在完整排序上评估，类边界是排位的函数）
func classifyABC(cumulativePct float64) string {
	switch {
	case cumulativePct <= 80:
		return "A"
	case cumulativePct <= 95:
		return "B"
	default:
		return "C"
	}
}

// classifyXYZ 按月度需求变异系数定级
func classifyXYZ(cv float64) string {
	switch {
	case cv <= 0.5:
		return "X"
	case cv <= 1.0:
		return "Y"
	default:
		return "Z"
	}
}

// Classify 计算 ABC-XYZ 交叉分类
//
// ABC：按商品合并口径合计，剔除非正值，降序累计占比分级。
// XYZ：按商品×月份合计后取均值与样本标准差，CV=σ/μ；均值为 0 时 CV 为 +Inf 归 Z。
// 无可用日期时全部兜底为 Z 并置 XYZDegraded，调用方须区别于真实 Z。
// 视图中无正合计商品时返回 nil。
func Classify(view []*model.SalesRecord, metric model.Metric) *model.Classification {
	totals := make(map[string]float64)
	labels := make(map[string]string)
	for _, r := range view {
		if r.ItemID == "" {
			continue
		}
		totals[r.ItemID] += metric.Value(r)
		if _, ok := labels[r.ItemID]; !ok {
			labels[r.ItemID] = r.DisplayLabel()
		}
	}

	items := make([]model.ClassifiedItem, 0, len(totals))
	var grandTotal float64
	for id, sum := range totals {
		if sum <= 0 {
			continue
		}
		items = append(items, model.ClassifiedItem{
			ItemID:      id,
			Display:     labels[id],
			MetricTotal: sum,
		})
		grandTotal += sum
	}
	if len(items) == 0 || grandTotal == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].MetricTotal != items[j].MetricTotal {
			return items[i].MetricTotal > items[j].MetricTotal
		}
		return items[i].ItemID < items[j].ItemID
	})

	var running float64
	for i := range items {
		running += items[i].MetricTotal
		items[i].CumulativePct = running / grandTotal * 100
		items[i].SharePct = items[i].MetricTotal / grandTotal * 100
		items[i].ABC = classifyABC(items[i].CumulativePct)
	}

	cvs, degraded := monthlyCV(view, metric)
	for i := range items {
		cv, ok := cvs[items[i].ItemID]
		if !ok {
			// 不在 XYZ 计算范围内（无带日期的观测）兜底为 Z
			items[i].XYZ = "Z"
			continue
		}
		items[i].CV = cv
		items[i].HasCV = true
		items[i].XYZ = classifyXYZ(cv)
	}

	result := &model.Classification{
		Items:       items,
		Matrix:      buildMatrix(items),
		XYZDegraded: degraded,
	}
	return result
}

// monthlyCV 每个商品月度需求的变异系数
//
// 仅统计有观测数据的月份，缺失月份不按 0 补全；
// 单月商品样本标准差无定义，按 0 处理（CV=0）。
func monthlyCV(view []*model.SalesRecord, metric model.Metric) (map[string]float64, bool) {
	monthly := make(map[string]map[time.Time]float64)
	for _, r := range view {
		if r.ItemID == "" || !r.HasDate {
			continue
		}
		m := time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if monthly[r.ItemID] == nil {
			monthly[r.ItemID] = make(map[time.Time]float64)
		}
		monthly[r.ItemID][m] += metric.Value(r)
	}
	if len(monthly) == 0 {
		return nil, true
	}

	cvs := make(map[string]float64, len(monthly))
	for id, byMonth := range monthly {
		values := make([]float64, 0, len(byMonth))
		for _, v := range byMonth {
			values = append(values, v)
		}
		mean := stat.Mean(values, nil)
		sd := stat.StdDev(values, nil)
		if math.IsNaN(sd) {
			sd = 0
		}
		if mean == 0 {
			cvs[id] = math.Inf(1)
			continue
		}
		cvs[id] = sd / mean
	}
	return cvs, false
}

// buildMatrix 3×3 交叉矩阵：单元格计数、口径合计、占比与成员预览
//
// items 已按合计降序，预览按该顺序取前 3 个，超出时追加截断标记。
func buildMatrix(items []model.ClassifiedItem) []model.MatrixCell {
	type cellKey struct{ abc, xyz string }
	cells := make(map[cellKey]*model.MatrixCell)
	members := make(map[cellKey][]string)

	for i := range items {
		k := cellKey{items[i].ABC, items[i].XYZ}
		c, ok := cells[k]
		if !ok {
			c = &model.MatrixCell{ABC: k.abc, XYZ: k.xyz}
			cells[k] = c
		}
		c.ItemCount++
		c.MetricTotal += items[i].MetricTotal
		c.SharePct += items[i].SharePct
		members[k] = append(members[k], items[i].Display)
	}

	out := make([]model.MatrixCell, 0, len(cells))
	for k, c := range cells {
		names := members[k]
		if len(names) > 3 {
			c.ItemsPreview = strings.Join(names[:3], ", ") + " …"
		} else {
			c.ItemsPreview = strings.Join(names, ", ")
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ABC != out[j].ABC {
			return out[i].ABC < out[j].ABC
		}
		return out[i].XYZ < out[j].XYZ
	})
	return out
}

// SortedForDisplay 明细表展示排序：ABC 升序、组内合计降序
func SortedForDisplay(items []model.ClassifiedItem) []model.ClassifiedItem {
	out := append([]model.ClassifiedItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ABC != out[j].ABC {
			return out[i].ABC < out[j].ABC
		}
		return out[i].MetricTotal > out[j].MetricTotal
	})
	return out
}
