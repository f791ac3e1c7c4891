package analysis

import (
	"sort"
	"time"

	"salescope/internal/model"
)

// monthStart 归一到自然月起始（UTC）
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyTrend 过滤视图的口径值按自然月聚合，升序输出
//
// 无日期的行不参与；视图中没有可用日期时返回空序列。
func MonthlyTrend(view []*model.SalesRecord, metric model.Metric) []model.TrendPoint {
	sums := make(map[time.Time]float64)
	for _, r := range view {
		if !r.HasDate {
			continue
		}
		sums[monthStart(r.Date)] += metric.Value(r)
	}
	points := make([]model.TrendPoint, 0, len(sums))
	for m, v := range sums {
		points = append(points, model.TrendPoint{Month: m, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

var monthAbbr = [13]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SeasonalIndex 月度季节指数
//
// 对每个自然月份（1..12）取过滤数据中该月口径值的行均值，再除以这些均值的
// 总体均值得到指数；输出按 Jan..Dec 固定顺序，仅包含有观测的月份，
// 不受训练窗口限制。总体均值为 0 时无法计算，ok 为 false。
func SeasonalIndex(view []*model.SalesRecord, metric model.Metric) (entries []model.SeasonalIndexEntry, ok bool) {
	sums := [13]float64{}
	counts := [13]int{}
	for _, r := range view {
		if !r.HasDate {
			continue
		}
		m := int(r.Date.Month())
		sums[m] += metric.Value(r)
		counts[m]++
	}

	var overall float64
	observed := 0
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		observed++
		overall += sums[m] / float64(counts[m])
	}
	if observed == 0 {
		return nil, false
	}
	overall /= float64(observed)
	if overall == 0 {
		return nil, false
	}

	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		avg := sums[m] / float64(counts[m])
		entries = append(entries, model.SeasonalIndexEntry{
			MonthNum:   m,
			MonthLabel: monthAbbr[m],
			AvgMetric:  avg,
			Index:      avg / overall,
		})
	}
	return entries, true
}
