package dataset

import "testing"

// TestResolveColumnExact 全名别名不区分大小写匹配
func TestResolveColumnExact(t *testing.T) {
	cases := []struct {
		role    Role
		columns []string
		want    int
	}{
		{RoleTxItemID, []string{"date", "item_code", "qty_soldx"}, 1},
		{RoleTxItemID, []string{"ITEM_CODE"}, 0},
		{RoleTxItemID, []string{"ItemNumber"}, 0},
		{RoleMasterItemID, []string{"ItemName", "ItemNumber"}, 1},
		{RoleQty, []string{"qty_soldx"}, 0},
		{RoleQty, []string{"QTY_SOLDX"}, 0},
		{RoleSales, []string{"Sold_Amount"}, 0},
		{RoleSales, []string{"sales"}, 0},
		{RoleReturns, []string{"qty_returnedx"}, 0},
		{RoleDiscount, []string{"Total_Disc"}, 0},
		{RoleDate, []string{"item_code", "Date"}, 1},
		{RoleChannel, []string{"Class_Code"}, 0},
		{RoleChannel, []string{"class code"}, 0},
		{RoleItemName, []string{"ItemName"}, 0},
	}
	for _, c := range cases {
		if got := ResolveColumn(c.role, c.columns); got != c.want {
			t.Errorf("ResolveColumn(%s, %v) = %d, want %d", c.role, c.columns, got, c.want)
		}
	}
}

// TestResolveColumnSubstr 包含匹配：Brand / BrandName / product_brand 都命中
func TestResolveColumnSubstr(t *testing.T) {
	cases := []struct {
		role    Role
		columns []string
		want    int
	}{
		{RoleBrand, []string{"Brand"}, 0},
		{RoleBrand, []string{"BrandName"}, 0},
		{RoleBrand, []string{"x", "product_brand"}, 1},
		{RoleCategory, []string{"CategoryName"}, 0},
		{RoleRegion, []string{"sales_region"}, 0},
		{RoleFamily, []string{"ProductFamilyName"}, 0},
	}
	for _, c := range cases {
		if got := ResolveColumn(c.role, c.columns); got != c.want {
			t.Errorf("ResolveColumn(%s, %v) = %d, want %d", c.role, c.columns, got, c.want)
		}
	}
}

// TestResolveColumnMiss 无命中返回 -1
func TestResolveColumnMiss(t *testing.T) {
	columns := []string{"foo", "bar"}
	for _, role := range []Role{
		RoleTxItemID, RoleBrand, RoleDate, RoleQty, RoleSales,
	} {
		if got := ResolveColumn(role, columns); got != -1 {
			t.Errorf("ResolveColumn(%s) 应为 -1，得到 %d", role, got)
		}
	}
}

func TestResolveColumnTrimsSpace(t *testing.T) {
	if got := ResolveColumn(RoleQty, []string{" qty_soldx "}); got != 0 {
		t.Errorf("列名应先去除首尾空白，得到 %d", got)
	}
}

func TestAvailableMetrics(t *testing.T) {
	cases := []struct {
		schema Schema
		want   []string
		def    string
	}{
		{Schema{HasQty: true, HasSales: true}, []string{"quantity", "sales"}, "quantity"},
		{Schema{HasSales: true}, []string{"sales"}, "sales"},
		{Schema{HasQty: true}, []string{"quantity"}, "quantity"},
		{Schema{}, nil, ""},
	}
	for _, c := range cases {
		got := c.schema.AvailableMetrics()
		if len(got) != len(c.want) {
			t.Errorf("AvailableMetrics(%+v) = %v, want %v", c.schema, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("AvailableMetrics(%+v) = %v, want %v", c.schema, got, c.want)
			}
		}
		if d := c.schema.DefaultMetric(); d != c.def {
			t.Errorf("DefaultMetric(%+v) = %q, want %q", c.schema, d, c.def)
		}
	}
}
