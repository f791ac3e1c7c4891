package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// SmoothingMode 趋势/季节分量的组合方式
type SmoothingMode string

const (
	ModeAdditive       SmoothingMode = "additive"
	ModeMultiplicative SmoothingMode = "multiplicative"
)

// ParseSmoothingMode 解析用户口径参数
func ParseSmoothingMode(s string) (SmoothingMode, error) {
	switch s {
	case "", "additive", "add":
		return ModeAdditive, nil
	case "multiplicative", "mul":
		return ModeMultiplicative, nil
	}
	return "", fmt.Errorf("无效的平滑方式: %q", s)
}

// holtWinters 三重指数平滑模型（Holt-Winters），季节周期固定传入
//
// 初始状态由数据估计：水平取首个周期均值，趋势由前两个周期均值差/比推出，
// 季节分量由首个周期对水平去趋势得到；平滑参数 α β γ 通过最小化
// 单步预测误差平方和自动选取。
type holtWinters struct {
	trend    SmoothingMode
	seasonal SmoothingMode
	period   int

	alpha, beta, gamma float64

	// 拟合后的末端状态，预测从这里外推
	level     float64
	slope     float64
	seasonals []float64
	n         int
}

// fitHoltWinters 在训练序列上拟合模型
//
// 乘法分量要求序列严格为正；初始季节估计需要至少两个完整周期。
func fitHoltWinters(series []float64, trend, seasonal SmoothingMode, period int) (*holtWinters, error) {
	if period < 2 {
		return nil, errors.New("季节周期无效")
	}
	if len(series) < 2*period {
		return nil, fmt.Errorf("估计初始季节状态需要至少 %d 期观测，当前只有 %d 期", 2*period, len(series))
	}
	if trend == ModeMultiplicative || seasonal == ModeMultiplicative {
		for _, v := range series {
			if v <= 0 {
				return nil, errors.New("乘法趋势/季节要求序列严格为正")
			}
		}
	}

	hw := &holtWinters{trend: trend, seasonal: seasonal, period: period}

	// α β γ 通过 Nelder-Mead 搜索；logistic 变换把无约束参数压进 (0,1)
	sse := func(x []float64) float64 {
		a, b, g := sigmoid(x[0]), sigmoid(x[1]), sigmoid(x[2])
		v := hw.run(series, a, b, g, nil)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.MaxFloat64
		}
		return v
	}

	x0 := []float64{logit(0.3), logit(0.1), logit(0.1)}
	problem := optimize.Problem{Func: sse}
	best := x0
	if result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{}); err == nil && result != nil {
		best = result.X
	}

	hw.alpha, hw.beta, hw.gamma = sigmoid(best[0]), sigmoid(best[1]), sigmoid(best[2])

	state := &hwState{}
	final := hw.run(series, hw.alpha, hw.beta, hw.gamma, state)
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return nil, errors.New("模型状态发散，无法拟合")
	}
	hw.level = state.level
	hw.slope = state.slope
	hw.seasonals = state.seasonals
	hw.n = len(series)
	return hw, nil
}

type hwState struct {
	level     float64
	slope     float64
	seasonals []float64
}

// run 用给定参数走一遍平滑递推，返回单步预测误差平方和
//
// out 非 nil 时同时带出末端状态。
func (hw *holtWinters) run(series []float64, alpha, beta, gamma float64, out *hwState) float64 {
	m := hw.period

	var level, slope float64
	seasonals := make([]float64, m)
	mean1 := meanOf(series[:m])
	mean2 := meanOf(series[m : 2*m])
	level = mean1
	if hw.trend == ModeMultiplicative {
		if mean1 == 0 {
			return math.NaN()
		}
		slope = math.Pow(mean2/mean1, 1/float64(m))
	} else {
		slope = (mean2 - mean1) / float64(m)
	}
	for i := 0; i < m; i++ {
		if hw.seasonal == ModeMultiplicative {
			if mean1 == 0 {
				return math.NaN()
			}
			seasonals[i] = series[i] / mean1
		} else {
			seasonals[i] = series[i] - mean1
		}
	}

	sse := 0.0
	for t, y := range series {
		si := t % m
		base := hw.combineTrend(level, slope, 1)

		var fitted, detrended float64
		if hw.seasonal == ModeMultiplicative {
			fitted = base * seasonals[si]
			if seasonals[si] == 0 {
				return math.NaN()
			}
			detrended = y / seasonals[si]
		} else {
			fitted = base + seasonals[si]
			detrended = y - seasonals[si]
		}
		err := y - fitted
		sse += err * err

		prevLevel := level
		level = alpha*detrended + (1-alpha)*base
		if hw.trend == ModeMultiplicative {
			if prevLevel == 0 {
				return math.NaN()
			}
			slope = beta*(level/prevLevel) + (1-beta)*slope
		} else {
			slope = beta*(level-prevLevel) + (1-beta)*slope
		}
		if hw.seasonal == ModeMultiplicative {
			if level == 0 {
				return math.NaN()
			}
			seasonals[si] = gamma*(y/level) + (1-gamma)*seasonals[si]
		} else {
			seasonals[si] = gamma*(y-level) + (1-gamma)*seasonals[si]
		}
	}

	if out != nil {
		out.level = level
		out.slope = slope
		out.seasonals = seasonals
	}
	return sse
}

// combineTrend 水平与趋势外推 steps 步的基线
func (hw *holtWinters) combineTrend(level, slope float64, steps int) float64 {
	if hw.trend == ModeMultiplicative {
		return level * math.Pow(slope, float64(steps))
	}
	return level + float64(steps)*slope
}

// forecast 从末端状态外推 h 步
func (hw *holtWinters) forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 1; i <= h; i++ {
		base := hw.combineTrend(hw.level, hw.slope, i)
		si := (hw.n + i - 1) % hw.period
		if hw.seasonal == ModeMultiplicative {
			out[i-1] = base * hw.seasonals[si]
		} else {
			out[i-1] = base + hw.seasonals[si]
		}
	}
	return out
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
