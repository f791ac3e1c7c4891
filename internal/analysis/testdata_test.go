package analysis

import (
	"math"
	"testing"
	"time"

	"salescope/internal/dataset"
	"salescope/internal/model"
)

// fullSchema 测试用：所有角色齐备的能力集合
var fullSchema = dataset.Schema{
	HasItemID: true, HasItemName: true,
	HasBrand: true, HasCategory: true, HasRegion: true,
	HasChannel: true, HasFamily: true, HasDate: true,
	HasQty: true, HasReturns: true, HasSales: true, HasDiscount: true,
}

// rec 构造一条测试记录
func rec(id, brand, region string, qty, sales float64, date string) *model.SalesRecord {
	r := &model.SalesRecord{
		ItemID: id,
		Brand:  brand,
		Region: region,
		Qty:    qty,
		Sales:  sales,
	}
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			panic(err)
		}
		r.Date = d
		r.HasDate = true
	}
	return r
}

// monthlySeries 构造从 startMonth 开始连续 n 个月、每月一条记录的视图
func monthlySeries(startMonth string, values []float64) []*model.SalesRecord {
	start, err := time.Parse("2006-01", startMonth)
	if err != nil {
		panic(err)
	}
	view := make([]*model.SalesRecord, 0, len(values))
	for i, v := range values {
		m := start.AddDate(0, i, 0)
		view = append(view, rec("P1", "B1", "R1", v, v*10, m.Format("2006-01-02")))
	}
	return view
}

// constantSeries n 个月恒定值
func constantSeries(startMonth string, n int, value float64) []*model.SalesRecord {
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	return monthlySeries(startMonth, values)
}

func approx(t *testing.T, got, want, tol float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %v, want %v (±%v)", msg, got, want, tol)
	}
}

func dateOf(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}
