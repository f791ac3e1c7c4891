package dataset

import "strings"

// Role 列的语义角色
type Role string

const (
	RoleMasterItemID Role = "master_item_id"
	RoleTxItemID     Role = "tx_item_id"
	RoleItemName     Role = "item_name"
	RoleBrand        Role = "brand"
	RoleCategory     Role = "category"
	RoleRegion       Role = "region"
	RoleChannel      Role = "channel"
	RoleFamily       Role = "family"
	RoleDate         Role = "date"
	RoleQty          Role = "qty"
	RoleReturns      Role = "returns"
	RoleSales        Role = "sales"
	RoleDiscount     Role = "discount"
)

// roleRule 角色 → 可接受列名模式（按声明顺序优先匹配）
//
// exact 为不区分大小写的全名别名；substr 为不区分大小写的包含匹配。
// 静态表在加载时一次性解析，后续不再做运行期列名探测。
type roleRule struct {
	role   Role
	exact  []string
	substr []string
}

var roleRules = []roleRule{
	{role: RoleMasterItemID, exact: []string{"itemnumber"}},
	{role: RoleTxItemID, exact: []string{"item_code", "itemnumber", "itemcode"}},
	{role: RoleItemName, exact: []string{"itemname", "item_name", "name"}},
	{role: RoleBrand, substr: []string{"brand"}},
	{role: RoleCategory, substr: []string{"category"}},
	{role: RoleRegion, substr: []string{"region"}},
	{role: RoleChannel, exact: []string{"class_code", "class code"}},
	{role: RoleFamily, substr: []string{"family"}},
	{role: RoleDate, exact: []string{"date"}},
	{role: RoleQty, exact: []string{"qty_soldx"}},
	{role: RoleReturns, exact: []string{"qty_returnedx"}},
	{role: RoleSales, exact: []string{"sold_amount", "sales"}},
	{role: RoleDiscount, exact: []string{"total_disc"}},
}

// ResolveColumn 在列名表中定位角色对应的列，返回列下标
//
// 找不到返回 -1，调用方按“该能力缺失”降级处理而不是报错。
func ResolveColumn(role Role, columns []string) int {
	var rule *roleRule
	for i := range roleRules {
		if roleRules[i].role == role {
			rule = &roleRules[i]
			break
		}
	}
	if rule == nil {
		return -1
	}

	lowered := make([]string, len(columns))
	for i, c := range columns {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for _, alias := range rule.exact {
		for i, c := range lowered {
			if c == alias {
				return i
			}
		}
	}
	for _, pattern := range rule.substr {
		for i, c := range lowered {
			if strings.Contains(c, pattern) {
				return i
			}
		}
	}
	return -1
}

// Schema 合并表解析出的能力集合
//
// 每个布尔位对应一个语义角色是否可用；依赖某角色的组件在其缺失时
// 跳过对应功能并给出提示，而不是失败。
type Schema struct {
	HasItemID   bool
	HasItemName bool
	HasBrand    bool
	HasCategory bool
	HasRegion   bool
	HasChannel  bool
	HasFamily   bool
	HasDate     bool
	HasQty      bool
	HasReturns  bool
	HasSales    bool
	HasDiscount bool
}

// AvailableMetrics 可用口径，数量优先（与指标选择默认值一致）
func (s Schema) AvailableMetrics() []string {
	var metrics []string
	if s.HasQty {
		metrics = append(metrics, "quantity")
	}
	if s.HasSales {
		metrics = append(metrics, "sales")
	}
	return metrics
}

// DefaultMetric 缺省口径；两列都缺失时返回空串
func (s Schema) DefaultMetric() string {
	m := s.AvailableMetrics()
	if len(m) == 0 {
		return ""
	}
	return m[0]
}
