package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"salescope/internal/dataset"
	"salescope/internal/model"
)

// Table 导出用的通用表：所有输出制品统一转成表头 + 字符串行
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// WriteCSV 以逗号分隔文本写出
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pct1(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// KPITable 标量汇总表
func KPITable(k *model.KPISummary, metric model.Metric) *Table {
	t := &Table{Name: "KPI", Header: []string{"Indicator", "Value"}}
	add := func(name string, value string) {
		t.Rows = append(t.Rows, []string{name, value})
	}
	add("Total Quantity", num(k.TotalQty))
	add("Total Returns", num(k.TotalReturns))
	add("Total Sales", num(k.TotalSales))
	add("Total Discount", num(k.TotalDiscount))
	add("Returns %", fmt.Sprintf("%.2f%%", k.ReturnsPct))
	add("Discount %", fmt.Sprintf("%.2f%%", k.DiscountPct))
	add("Unit Price", fmt.Sprintf("%.2f", k.UnitPrice))
	add("Unique Items", strconv.Itoa(k.UniqueItems))
	add("Metric", string(metric))
	add("Metric Total", num(k.MetricTotal))
	add("Metric Avg / Item", fmt.Sprintf("%.2f", k.MetricAvgPerItem))
	add("Rows", strconv.Itoa(k.RowCount))
	add("Months In View", strconv.Itoa(k.MonthCount))
	add("Monthly Metric", fmt.Sprintf("%.2f", k.MonthlyMetric))
	add("Monthly Quantity", fmt.Sprintf("%.2f", k.MonthlyQty))
	add("Monthly Returns", fmt.Sprintf("%.2f", k.MonthlyReturns))
	add("Monthly Sales", fmt.Sprintf("%.2f", k.MonthlySales))
	return t
}

// RollupTable 维度汇总表
func RollupTable(label string, rows []model.RollupRow) *Table {
	t := &Table{Name: label, Header: []string{label, "Total", "% Share"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Key, num(r.Total), pct1(r.Percent)})
	}
	return t
}

// ItemsTable ABC-XYZ 明细表
func ItemsTable(items []model.ClassifiedItem) *Table {
	t := &Table{
		Name:   "ABC-XYZ Items",
		Header: []string{"ItemNumber", "Item", "Metric Total", "% Contribution", "ABC", "XYZ", "CV"},
	}
	for _, it := range items {
		cv := "-"
		if it.HasCV {
			cv = fmt.Sprintf("%.2f", it.CV)
		}
		t.Rows = append(t.Rows, []string{
			it.ItemID, it.Display, num(it.MetricTotal), pct1(it.SharePct), it.ABC, it.XYZ, cv,
		})
	}
	return t
}

// MatrixTable 交叉矩阵表
func MatrixTable(cells []model.MatrixCell) *Table {
	t := &Table{
		Name:   "ABC-XYZ Matrix",
		Header: []string{"ABC", "XYZ", "Items", "Metric Total", "% of Total", "Sample Items"},
	}
	for _, c := range cells {
		t.Rows = append(t.Rows, []string{
			c.ABC, c.XYZ, strconv.Itoa(c.ItemCount), num(c.MetricTotal), pct1(c.SharePct), c.ItemsPreview,
		})
	}
	return t
}

// TrendTable 月度趋势表
func TrendTable(points []model.TrendPoint) *Table {
	t := &Table{Name: "Monthly Trend", Header: []string{"Month", "Value"}}
	for _, p := range points {
		t.Rows = append(t.Rows, []string{p.Month.Format("2006-01"), num(p.Value)})
	}
	return t
}

// SeasonalTable 季节指数表
func SeasonalTable(entries []model.SeasonalIndexEntry) *Table {
	t := &Table{Name: "Seasonal Index", Header: []string{"Month", "Avg Metric", "Seasonal Index"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{e.MonthLabel, fmt.Sprintf("%.2f", e.AvgMetric), fmt.Sprintf("%.2f", e.Index)})
	}
	return t
}

// ForecastTable 实际+预测序列表
func ForecastTable(series []model.ForecastPoint) *Table {
	t := &Table{Name: "Forecast", Header: []string{"Month", "Value", "Type"}}
	for _, p := range series {
		t.Rows = append(t.Rows, []string{p.Month.Format("2006-01"), num(p.Value), string(p.Type)})
	}
	return t
}

// YearlyTable 年度合计与同比表
func YearlyTable(rows []model.YearlyGrowthRow) *Table {
	t := &Table{Name: "Yearly Growth", Header: []string{"Year", "Type", "Total", "YoY %"}}
	for _, r := range rows {
		yoy := "-"
		if r.YoYPercent != nil {
			yoy = fmt.Sprintf("%.2f%%", *r.YoYPercent)
		}
		t.Rows = append(t.Rows, []string{strconv.Itoa(r.Year), string(r.Type), num(r.Total), yoy})
	}
	return t
}

// FilteredDataTable 筛选后的明细数据（对应看板的原始数据下载）
func FilteredDataTable(view []*model.SalesRecord, schema dataset.Schema) *Table {
	t := &Table{Name: "Filtered Data"}
	t.Header = []string{"ItemNumber", "ItemName", "Brand", "Category", "Region", "Channel", "Family", "Date"}
	if schema.HasQty {
		t.Header = append(t.Header, "Qty")
	}
	if schema.HasReturns {
		t.Header = append(t.Header, "Returns")
	}
	if schema.HasSales {
		t.Header = append(t.Header, "Sales")
	}
	if schema.HasDiscount {
		t.Header = append(t.Header, "Discount")
	}
	for _, r := range view {
		date := ""
		if r.HasDate {
			date = r.Date.Format("2006-01-02")
		}
		row := []string{r.ItemID, r.ItemName, r.Brand, r.Category, r.Region, r.Channel, r.Family, date}
		if schema.HasQty {
			row = append(row, num(r.Qty))
		}
		if schema.HasReturns {
			row = append(row, num(r.Returns))
		}
		if schema.HasSales {
			row = append(row, num(r.Sales))
		}
		if schema.HasDiscount {
			row = append(row, num(r.Discount))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
