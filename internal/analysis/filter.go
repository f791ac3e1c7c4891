package analysis

import (
	"sort"
	"strings"
	"time"

	"salescope/internal/dataset"
	"salescope/internal/model"
)

// BaseView 由数据集构建初始视图（后续所有筛选在其上收窄）
func BaseView(ds *dataset.Dataset) []*model.SalesRecord {
	view := make([]*model.SalesRecord, len(ds.Records))
	for i := range ds.Records {
		view[i] = &ds.Records[i]
	}
	return view
}

// ApplyFilters 按固定顺序应用筛选谓词：品牌→品类→区域→渠道→系列→商品→日期
//
// 各谓词相互独立、AND 叠加；每一级返回新的收窄视图，不修改输入。
func ApplyFilters(view []*model.SalesRecord, f *model.FilterState) []*model.SalesRecord {
	if f == nil {
		return view
	}
	view = filterBySet(view, f.Brands, func(r *model.SalesRecord) string { return r.Brand })
	view = filterBySet(view, f.Categories, func(r *model.SalesRecord) string { return r.Category })
	view = filterBySet(view, f.Regions, func(r *model.SalesRecord) string { return r.Region })
	view = filterBySet(view, f.Channels, func(r *model.SalesRecord) string { return r.Channel })
	if f.Family != "" {
		view = filterBy(view, func(r *model.SalesRecord) bool { return r.Family == f.Family })
	}
	if f.ItemID != "" {
		view = filterBy(view, func(r *model.SalesRecord) bool { return r.ItemID == f.ItemID })
	}
	if f.DateStart != nil || f.DateEnd != nil {
		view = filterBy(view, func(r *model.SalesRecord) bool {
			if !r.HasDate {
				return false
			}
			if f.DateStart != nil && r.Date.Before(*f.DateStart) {
				return false
			}
			if f.DateEnd != nil && r.Date.After(*f.DateEnd) {
				return false
			}
			return true
		})
	}
	return view
}

// filterBySet 多选集合谓词；values 为 nil 表示未触碰，等价全选不过滤
func filterBySet(view []*model.SalesRecord, values []string, key func(*model.SalesRecord) string) []*model.SalesRecord {
	if values == nil {
		return view
	}
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return filterBy(view, func(r *model.SalesRecord) bool {
		_, ok := allowed[key(r)]
		return ok
	})
}

func filterBy(view []*model.SalesRecord, pred func(*model.SalesRecord) bool) []*model.SalesRecord {
	out := make([]*model.SalesRecord, 0, len(view))
	for _, r := range view {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// uniqueValues 维度的候选值列表：非空值去重升序
func uniqueValues(view []*model.SalesRecord, key func(*model.SalesRecord) string) []string {
	seen := make(map[string]struct{})
	for _, r := range view {
		v := key(r)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ItemChoice 商品下拉候选项
type ItemChoice struct {
	ItemID  string `json:"itemId"`
	Display string `json:"display"`
}

// ItemChoices 去重后的商品候选（保留编码首次出现时的展示名）
func ItemChoices(view []*model.SalesRecord) []ItemChoice {
	seen := make(map[string]struct{})
	var out []ItemChoice
	for _, r := range view {
		if r.ItemID == "" {
			continue
		}
		if _, ok := seen[r.ItemID]; ok {
			continue
		}
		seen[r.ItemID] = struct{}{}
		out = append(out, ItemChoice{ItemID: r.ItemID, Display: r.DisplayLabel()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// SearchItems 按编码/名称/展示名做不区分大小写的包含匹配收窄候选
//
// 无命中时退回完整候选列表（搜索降级为无操作，不产生空列表）；
// matched 告知调用方是否真正命中。
func SearchItems(choices []ItemChoice, query string) (result []ItemChoice, matched bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return choices, true
	}
	for _, c := range choices {
		if strings.Contains(strings.ToLower(c.ItemID), query) ||
			strings.Contains(strings.ToLower(c.Display), query) {
			result = append(result, c)
		}
	}
	if len(result) == 0 {
		return choices, false
	}
	return result, true
}

// Options 各筛选控件的候选值（逐级收窄后）与未筛选全表的日期边界
type Options struct {
	Metrics    []string     `json:"metrics"`
	Brands     []string     `json:"brands"`
	Categories []string     `json:"categories"`
	Regions    []string     `json:"regions"`
	Channels   []string     `json:"channels"`
	Families   []string     `json:"families"`
	Items      []ItemChoice `json:"items"`
	// ItemSearchMatched 为 false 表示搜索无命中、候选已退回完整列表
	ItemSearchMatched bool       `json:"itemSearchMatched"`
	DateMin           *time.Time `json:"dateMin"`
	DateMax           *time.Time `json:"dateMax"`
}

// BuildOptions 计算筛选控件候选
//
// 每个维度的候选基于它之前各级筛选后的视图（与侧栏控件从上到下的联动一致）；
// 日期边界始终取未筛选全表，放宽其它筛选不会悄悄移动日期范围。
func BuildOptions(ds *dataset.Dataset, f *model.FilterState, itemSearch string) *Options {
	if f == nil {
		f = &model.FilterState{}
	}
	opts := &Options{Metrics: ds.Schema.AvailableMetrics(), ItemSearchMatched: true}

	view := BaseView(ds)
	if ds.Schema.HasBrand {
		opts.Brands = uniqueValues(view, func(r *model.SalesRecord) string { return r.Brand })
		view = filterBySet(view, f.Brands, func(r *model.SalesRecord) string { return r.Brand })
	}
	if ds.Schema.HasCategory {
		opts.Categories = uniqueValues(view, func(r *model.SalesRecord) string { return r.Category })
		view = filterBySet(view, f.Categories, func(r *model.SalesRecord) string { return r.Category })
	}
	if ds.Schema.HasRegion {
		opts.Regions = uniqueValues(view, func(r *model.SalesRecord) string { return r.Region })
		view = filterBySet(view, f.Regions, func(r *model.SalesRecord) string { return r.Region })
	}
	if ds.Schema.HasChannel {
		opts.Channels = uniqueValues(view, func(r *model.SalesRecord) string { return r.Channel })
		view = filterBySet(view, f.Channels, func(r *model.SalesRecord) string { return r.Channel })
	}
	if ds.Schema.HasFamily {
		opts.Families = uniqueValues(view, func(r *model.SalesRecord) string { return r.Family })
		if f.Family != "" {
			view = filterBy(view, func(r *model.SalesRecord) bool { return r.Family == f.Family })
		}
	}

	opts.Items, opts.ItemSearchMatched = SearchItems(ItemChoices(view), itemSearch)

	if min, max, ok := ds.DateBounds(); ok {
		opts.DateMin, opts.DateMax = &min, &max
	}
	return opts
}
