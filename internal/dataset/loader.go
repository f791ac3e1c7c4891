package dataset

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"salescope/internal/model"
)

// Dataset 一次上传的关系快照（事务表左连接主数据表后的物化结果）
//
// 上传即创建，下次上传整体替换，不做增量更新。
type Dataset struct {
	Records    []model.SalesRecord
	Schema     Schema
	TxRows     int
	MasterRows int
	// Unmatched 事务表中未匹配到主数据的行数（保留，主数据属性置空）
	Unmatched int
}

// table 通用表：列名 + 字符串化的单元格
type table struct {
	columns []string
	rows    [][]string
}

// Load 读取 SQLite 快照并合并两张表
//
// 必需表不可读或连接键无法解析时返回错误，对一次会话是致命的。
func Load(dbPath, txTable, masterTable string) (*Dataset, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("数据库不可用: %w", err)
	}

	tx, err := readTable(db, txTable)
	if err != nil {
		return nil, fmt.Errorf("读取事务表 %s 失败: %w", txTable, err)
	}
	master, err := readTable(db, masterTable)
	if err != nil {
		return nil, fmt.Errorf("读取主数据表 %s 失败: %w", masterTable, err)
	}

	return merge(tx, master)
}

// readTable SELECT * 读取整表，所有单元格转为字符串
func readTable(db *sql.DB, name string) (*table, error) {
	rows, err := db.Query("SELECT * FROM " + quoteIdent(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t := &table{columns: columns}
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		cells := make([]string, len(columns))
		for i, v := range raw {
			cells[i] = cellToString(v)
		}
		t.rows = append(t.rows, cells)
	}
	return t, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func cellToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", x)
	}
}

// merge 按解析出的连接键做左外连接并物化为 SalesRecord
func merge(tx, master *table) (*Dataset, error) {
	txKey := ResolveColumn(RoleTxItemID, tx.columns)
	masterKey := ResolveColumn(RoleMasterItemID, master.columns)
	if txKey < 0 || masterKey < 0 {
		return nil, fmt.Errorf(
			"未找到连接键列。事务表列: %v | 主数据表列: %v",
			tx.columns, master.columns)
	}

	masterByID := make(map[string][]string, len(master.rows))
	for _, row := range master.rows {
		id := strings.TrimSpace(row[masterKey])
		if id == "" {
			continue
		}
		if _, ok := masterByID[id]; !ok {
			masterByID[id] = row
		}
	}

	// 合并列序：事务表在前，主数据表在后（角色解析按此顺序取首个命中）
	mergedCols := append(append([]string{}, tx.columns...), master.columns...)

	idx := map[Role]int{}
	for _, role := range []Role{
		RoleItemName, RoleBrand, RoleCategory, RoleRegion,
		RoleChannel, RoleFamily, RoleDate,
		RoleQty, RoleReturns, RoleSales, RoleDiscount,
	} {
		idx[role] = ResolveColumn(role, mergedCols)
	}

	schema := Schema{
		HasItemID:   true,
		HasItemName: idx[RoleItemName] >= 0,
		HasBrand:    idx[RoleBrand] >= 0,
		HasCategory: idx[RoleCategory] >= 0,
		HasRegion:   idx[RoleRegion] >= 0,
		HasChannel:  idx[RoleChannel] >= 0,
		HasFamily:   idx[RoleFamily] >= 0,
		HasDate:     idx[RoleDate] >= 0,
		HasQty:      idx[RoleQty] >= 0,
		HasReturns:  idx[RoleReturns] >= 0,
		HasSales:    idx[RoleSales] >= 0,
		HasDiscount: idx[RoleDiscount] >= 0,
	}

	ds := &Dataset{
		Schema:     schema,
		TxRows:     len(tx.rows),
		MasterRows: len(master.rows),
	}

	txWidth := len(tx.columns)
	for _, txRow := range tx.rows {
		key := strings.TrimSpace(txRow[txKey])
		masterRow, matched := masterByID[key]
		if !matched {
			ds.Unmatched++
		}

		cell := func(i int) string {
			if i < 0 {
				return ""
			}
			if i < txWidth {
				return strings.TrimSpace(txRow[i])
			}
			if masterRow == nil {
				return ""
			}
			return strings.TrimSpace(masterRow[i-txWidth])
		}

		rec := model.SalesRecord{
			ItemName: cell(idx[RoleItemName]),
			Brand:    cell(idx[RoleBrand]),
			Category: cell(idx[RoleCategory]),
			Region:   cell(idx[RoleRegion]),
			Channel:  cell(idx[RoleChannel]),
			Family:   cell(idx[RoleFamily]),
			Qty:      parseNumber(cell(idx[RoleQty])),
			Returns:  parseNumber(cell(idx[RoleReturns])),
			Sales:    parseNumber(cell(idx[RoleSales])),
			Discount: parseNumber(cell(idx[RoleDiscount])),
		}
		// 商品编码取主数据侧的值：未匹配行置空，从而被商品级聚合排除
		if matched {
			rec.ItemID = strings.TrimSpace(masterRow[masterKey])
		}
		if idx[RoleDate] >= 0 {
			if d, ok := parseDate(cell(idx[RoleDate])); ok {
				rec.Date = d
				rec.HasDate = true
			}
		}
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// parseNumber 宽松数值解析，失败按 0 处理
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// parseDate 逐个布局尝试解析；全部失败视为该行无日期
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// DateBounds 未筛选全表的日期上下界（用于日期控件钳制）
func (d *Dataset) DateBounds() (min, max time.Time, ok bool) {
	for i := range d.Records {
		r := &d.Records[i]
		if !r.HasDate {
			continue
		}
		if !ok {
			min, max, ok = r.Date, r.Date, true
			continue
		}
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, ok
}
