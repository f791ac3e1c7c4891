package analysis

import (
	"math"
	"testing"
)

// TestFitHoltWintersConstantSeries 恒定序列：水平锁定、趋势与季节为零，外推恒定
func TestFitHoltWintersConstantSeries(t *testing.T) {
	series := make([]float64, 24)
	for i := range series {
		series[i] = 100
	}
	hw, err := fitHoltWinters(series, ModeAdditive, ModeAdditive, 12)
	if err != nil {
		t.Fatalf("拟合失败: %v", err)
	}
	for i, v := range hw.forecast(12) {
		approx(t, v, 100, 1e-6, "恒定序列外推")
		if math.IsNaN(v) {
			t.Fatalf("第 %d 期外推为 NaN", i)
		}
	}
}

// TestFitHoltWintersSeasonalPattern 稳定季节形态在外推中按周期重现
func TestFitHoltWintersSeasonalPattern(t *testing.T) {
	// 3 个完整周期的固定季节形态，无趋势
	pattern := []float64{100, 120, 90, 110, 95, 130, 105, 85, 115, 125, 80, 140}
	var series []float64
	for i := 0; i < 3; i++ {
		series = append(series, pattern...)
	}
	hw, err := fitHoltWinters(series, ModeAdditive, ModeAdditive, 12)
	if err != nil {
		t.Fatalf("拟合失败: %v", err)
	}
	forecast := hw.forecast(12)
	for i, v := range forecast {
		approx(t, v, pattern[i], 5, "季节形态外推")
	}
}

// TestFitHoltWintersTooShort 不足两个完整季节周期时报错
func TestFitHoltWintersTooShort(t *testing.T) {
	series := make([]float64, 18)
	for i := range series {
		series[i] = float64(i + 1)
	}
	if _, err := fitHoltWinters(series, ModeAdditive, ModeAdditive, 12); err == nil {
		t.Error("18 期数据应无法估计 12 期季节的初始状态")
	}
}

// TestFitHoltWintersMultiplicativeRequiresPositive 乘法分量拒绝非正序列
func TestFitHoltWintersMultiplicativeRequiresPositive(t *testing.T) {
	series := make([]float64, 24)
	for i := range series {
		series[i] = 100
	}
	series[5] = 0

	if _, err := fitHoltWinters(series, ModeAdditive, ModeMultiplicative, 12); err == nil {
		t.Error("含 0 的序列不应允许乘法季节")
	}
	if _, err := fitHoltWinters(series, ModeMultiplicative, ModeAdditive, 12); err == nil {
		t.Error("含 0 的序列不应允许乘法趋势")
	}
}

// TestParseSmoothingMode 口径参数解析
func TestParseSmoothingMode(t *testing.T) {
	cases := []struct {
		in   string
		want SmoothingMode
		ok   bool
	}{
		{"additive", ModeAdditive, true},
		{"add", ModeAdditive, true},
		{"multiplicative", ModeMultiplicative, true},
		{"mul", ModeMultiplicative, true},
		{"", ModeAdditive, true},
		{"damped", "", false},
	}
	for _, tc := range cases {
		got, err := ParseSmoothingMode(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseSmoothingMode(%q) = %v, %v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseSmoothingMode(%q) 应报错", tc.in)
		}
	}
}
