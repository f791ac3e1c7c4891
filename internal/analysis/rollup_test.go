package analysis

import (
	"testing"

	"salescope/internal/model"
)

// TestRollupBasic 降序排序、缺失值与零合计分组剔除、占比相对保留分组
func TestRollupBasic(t *testing.T) {
	view := []*model.SalesRecord{
		rec("P1", "B", "North", 30, 0, ""),
		rec("P2", "B", "North", 20, 0, ""),
		rec("P3", "B", "South", 40, 0, ""),
		rec("P4", "B", "", 99, 0, ""),   // 维度缺失，剔除
		rec("P5", "B", "East", 10, 0, ""),
		rec("P6", "B", "East", -10, 0, ""), // 合计归零，剔除
	}

	rows := Rollup(view, DimRegion, model.MetricQuantity)
	if len(rows) != 2 {
		t.Fatalf("应保留 2 个分组，得到 %d: %+v", len(rows), rows)
	}
	if rows[0].Key != "North" || rows[1].Key != "South" {
		t.Errorf("排序错误: %+v", rows)
	}
	approx(t, rows[0].Total, 50, 1e-9, "North 合计")
	approx(t, rows[0].Percent, 50.0/90*100, 1e-9, "North 占比")

	var pctSum float64
	for _, r := range rows {
		pctSum += r.Percent
	}
	approx(t, pctSum, 100, 1e-9, "占比之和")
}

// TestRollupEmpty 无可用分组时返回空
func TestRollupEmpty(t *testing.T) {
	view := []*model.SalesRecord{rec("P1", "B", "", 10, 0, "")}
	if rows := Rollup(view, DimRegion, model.MetricQuantity); len(rows) != 0 {
		t.Errorf("应为空结果: %+v", rows)
	}
}
