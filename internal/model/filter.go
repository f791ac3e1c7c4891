package model

import (
	"sort"
	"strings"
	"time"
)

// FilterState 一次交互的筛选快照
//
// 多选维度用 nil 表示控件未触碰（等价全选不过滤），空切片表示
// 全部反选；单选维度用空串表示"全部"。日期端点为 nil 时该侧不设界。
type FilterState struct {
	Brands     []string `json:"brands"`
	Categories []string `json:"categories"`
	Regions    []string `json:"regions"`
	Channels   []string `json:"channels"`

	Family string `json:"family"`
	ItemID string `json:"itemId"`

	DateStart *time.Time `json:"dateStart"`
	DateEnd   *time.Time `json:"dateEnd"`
}

// Fingerprint 筛选快照加口径的规范化编码，作为派生结果的缓存键
//
// 集合排序后拼接，保证语义相同的快照编码一致；nil 集合与空集合
// 编码不同（未触碰与全部反选语义不同）。
func (f *FilterState) Fingerprint(metric Metric) string {
	var b strings.Builder
	b.WriteString(string(metric))

	writeSet := func(values []string) {
		b.WriteByte('\x1f')
		if values == nil {
			b.WriteByte('*')
			return
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		b.WriteString(strings.Join(sorted, "\x1e"))
	}
	writeTime := func(t *time.Time) {
		b.WriteByte('\x1f')
		if t != nil {
			b.WriteString(t.UTC().Format(time.RFC3339))
		}
	}

	if f == nil {
		f = &FilterState{}
	}
	writeSet(f.Brands)
	writeSet(f.Categories)
	writeSet(f.Regions)
	writeSet(f.Channels)
	b.WriteByte('\x1f')
	b.WriteString(f.Family)
	b.WriteByte('\x1f')
	b.WriteString(f.ItemID)
	writeTime(f.DateStart)
	writeTime(f.DateEnd)
	return b.String()
}
