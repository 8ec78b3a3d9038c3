package table

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

func readWorkbook(path string) (*Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	name := file.GetSheetName(file.GetActiveSheetIndex())
	if name == "" {
		return nil, fmt.Errorf("工作簿中没有活动工作表")
	}
	raw, err := file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %s 失败: %w", name, err)
	}

	rows := make([][]any, len(raw))
	for r, cells := range raw {
		row := make([]any, len(cells))
		for c, text := range cells {
			v, err := cellValue(file, name, c+1, r+1, text)
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
		rows[r] = row
	}
	return split(rows), nil
}

// cellValue 空单元格返回 nil；数值单元格返回 float64；其余保持显示文本。
func cellValue(file *excelize.File, sheet string, col, row int, text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	kind, err := file.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}
	switch kind {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, nil
		}
	}
	return text, nil
}
