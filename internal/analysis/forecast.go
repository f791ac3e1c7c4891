package analysis

import (
	"fmt"
	"sort"
	"time"

	"salescope/internal/model"
)

// 季节周期固定为 12 个月，训练窗口不足 12 个观测月时直接跳过预测
const (
	seasonalPeriod    = 12
	minTrainingMonths = 12

	HorizonMin = 6
	HorizonMax = 24
	GrowthMin  = -100.0
	GrowthMax  = 200.0
)

// ForecastParams 预测请求参数
type ForecastParams struct {
	// 训练窗口，nil 端点取可用月度范围的边界；start > end 时静默交换
	TrainStart *time.Time `json:"trainStart"`
	TrainEnd   *time.Time `json:"trainEnd"`

	Horizon      int     `json:"horizon"`
	TrendMode    string  `json:"trendMode"`
	SeasonalMode string  `json:"seasonalMode"`
	GrowthPct    float64 `json:"growthPct"`
}

// normalize 钳制参数到允许区间并解析平滑方式
func (p *ForecastParams) normalize() (trend, seasonal SmoothingMode, err error) {
	if p.Horizon == 0 {
		p.Horizon = 12
	}
	if p.Horizon < HorizonMin {
		p.Horizon = HorizonMin
	}
	if p.Horizon > HorizonMax {
		p.Horizon = HorizonMax
	}
	if p.GrowthPct < GrowthMin {
		p.GrowthPct = GrowthMin
	}
	if p.GrowthPct > GrowthMax {
		p.GrowthPct = GrowthMax
	}
	trend, err = ParseSmoothingMode(p.TrendMode)
	if err != nil {
		return "", "", err
	}
	seasonal, err = ParseSmoothingMode(p.SeasonalMode)
	if err != nil {
		return "", "", err
	}
	return trend, seasonal, nil
}

// RunForecast 时序预测管线
//
// 月度聚合 → 训练窗口截取 → 重采样补零 → Holt-Winters 拟合外推 →
// 手动增长覆盖 → 年度合计与同比。拟合/预测中的任何错误被捕获为
// 非致命 Warning，不重试，其余看板功能不受影响。
func RunForecast(view []*model.SalesRecord, metric model.Metric, params ForecastParams) *model.ForecastResult {
	trend, seasonal, err := params.normalize()
	if err != nil {
		return &model.ForecastResult{Warning: err.Error()}
	}

	monthly := MonthlyTrend(view, metric)
	if len(monthly) == 0 {
		return &model.ForecastResult{
			Skipped:    true,
			SkipReason: "当前筛选下没有可用的日期数据，无法绘制趋势或预测",
		}
	}

	start := monthly[0].Month
	end := monthly[len(monthly)-1].Month
	if params.TrainStart != nil {
		start = *params.TrainStart
	}
	if params.TrainEnd != nil {
		end = *params.TrainEnd
	}
	// 起止颠倒按文档化的边界情形处理：静默交换，等价于已排序的区间
	if start.After(end) {
		start, end = end, start
	}

	var training []model.TrendPoint
	for _, p := range monthly {
		if !p.Month.Before(start) && !p.Month.After(end) {
			training = append(training, p)
		}
	}

	if len(training) < minTrainingMonths {
		return &model.ForecastResult{
			Skipped: true,
			SkipReason: fmt.Sprintf(
				"训练窗口内只有 %d 个观测月，构建预测至少需要 %d 个月（季节周期固定为 12）",
				len(training), minTrainingMonths),
		}
	}

	// 重采样到精确的月初频率，空档月按 0 补齐
	months, series := resampleMonthly(training)

	hw, err := fitHoltWinters(series, trend, seasonal, seasonalPeriod)
	if err != nil {
		return &model.ForecastResult{Warning: fmt.Sprintf("无法计算预测: %v", err)}
	}
	forecast := hw.forecast(params.Horizon)

	// 手动增长覆盖：模型之后统一乘 (1+pct/100)，不重新拟合
	if params.GrowthPct != 0 {
		factor := 1 + params.GrowthPct/100
		for i := range forecast {
			forecast[i] *= factor
		}
	}

	result := &model.ForecastResult{}
	for i, m := range months {
		result.Series = append(result.Series, model.ForecastPoint{
			Month: m, Value: series[i], Type: model.SeriesActual,
		})
	}
	last := months[len(months)-1]
	for i, v := range forecast {
		result.Series = append(result.Series, model.ForecastPoint{
			Month: last.AddDate(0, i+1, 0), Value: v, Type: model.SeriesForecast,
		})
	}

	result.Yearly = yearlyGrowth(training, result.Series[len(months):])
	return result
}

// resampleMonthly 展开为从首月到末月的连续月初序列，缺失月份取 0
func resampleMonthly(points []model.TrendPoint) ([]time.Time, []float64) {
	byMonth := make(map[time.Time]float64, len(points))
	for _, p := range points {
		byMonth[p.Month] = p.Value
	}
	first := points[0].Month
	last := points[len(points)-1].Month

	var months []time.Time
	var series []float64
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
		series = append(series, byMonth[m])
	}
	return months, series
}

// yearlyGrowth 实际与预测的年度合计拼接，按年求和并计算链式同比
//
// 同一年同时含实际与预测月份时合并为一行，类型标记为混合；
// 首年无同比，上一年合计为 0 时同比同样无定义。
func yearlyGrowth(training []model.TrendPoint, forecast []model.ForecastPoint) []model.YearlyGrowthRow {
	type yearAgg struct {
		total               float64
		hasActual, hasFcast bool
	}
	byYear := make(map[int]*yearAgg)
	get := func(y int) *yearAgg {
		if byYear[y] == nil {
			byYear[y] = &yearAgg{}
		}
		return byYear[y]
	}
	for _, p := range training {
		a := get(p.Month.Year())
		a.total += p.Value
		a.hasActual = true
	}
	for _, p := range forecast {
		a := get(p.Month.Year())
		a.total += p.Value
		a.hasFcast = true
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	rows := make([]model.YearlyGrowthRow, 0, len(years))
	for i, y := range years {
		a := byYear[y]
		row := model.YearlyGrowthRow{Year: y, Total: a.total}
		switch {
		case a.hasActual && a.hasFcast:
			row.Type = model.SeriesBlended
		case a.hasFcast:
			row.Type = model.SeriesForecast
		default:
			row.Type = model.SeriesActual
		}
		if i > 0 {
			prev := byYear[years[i-1]].total
			if prev != 0 {
				yoy := (a.total - prev) / prev * 100
				row.YoYPercent = &yoy
			}
		}
		rows = append(rows, row)
	}
	return rows
}
