package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook 把一组结果表写入一个工作簿，每表一个 sheet
func BuildWorkbook(tables []*Table) (*excelize.File, error) {
	uniqueSheetNames(tables)
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		sheet := sanitizeSheetName(t.Name)
		if i == 0 {
			// 复用默认 sheet
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}

		for col, h := range t.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return nil, err
			}
		}
		if len(t.Header) > 0 {
			endCell, _ := excelize.CoordinatesToCellName(len(t.Header), 1)
			_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)
		}

		for rowIdx, row := range t.Rows {
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// sanitizeSheetName excelize 对 sheet 名有长度与字符限制
func sanitizeSheetName(name string) string {
	if name == "" {
		return "Sheet"
	}
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// uniqueSheetNames 防重名（不同制品名截断后可能一致）
func uniqueSheetNames(tables []*Table) {
	seen := map[string]int{}
	for _, t := range tables {
		base := sanitizeSheetName(t.Name)
		if n, ok := seen[base]; ok {
			seen[base] = n + 1
			t.Name = fmt.Sprintf("%s_%d", base, n+1)
		} else {
			seen[base] = 0
			t.Name = base
		}
	}
}
