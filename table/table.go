// Package table 读取表格文件：第一行为表头，其余每行生成一条 Record。
package table

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/certify/failure"
)

// Record 将列名映射为标量值：string、float64 或 nil（缺失）。
//
// 表头重复时，靠后的列会覆盖靠前的同名列；这是已知行为，不做修正。
type Record map[string]any

// Lookup 返回列值的显示文本；列不存在时 ok 为 false，nil 值返回空串。
func (r Record) Lookup(column string) (text string, ok bool) {
	v, ok := r[column]
	if !ok {
		return "", false
	}
	return Format(v), true
}

// Format 将单元格值转换为显示文本。
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}

// Sheet 是读取后的整张表：有序表头与数据行。
type Sheet struct {
	Headers []string
	Rows    [][]any
}

// Records 按位置将每行与表头配对：短行缺失的尾部列为 nil，长行多余的值被丢弃。
func (s *Sheet) Records() []Record {
	out := make([]Record, 0, len(s.Rows))
	for _, row := range s.Rows {
		rec := make(Record, len(s.Headers))
		for i, header := range s.Headers {
			var v any
			if i < len(row) {
				v = row[i]
			}
			rec[header] = v
		}
		out = append(out, rec)
	}
	return out
}

// Load 读取 path 对应的表格并返回全部记录。
func Load(path string) ([]Record, error) {
	sheet, err := Read(path)
	if err != nil {
		return nil, err
	}
	return sheet.Records(), nil
}

// Headers 返回表头行（保持原顺序，可能包含重复或空白列名）。
func Headers(path string) ([]string, error) {
	sheet, err := Read(path)
	if err != nil {
		return nil, err
	}
	return sheet.Headers, nil
}

// Read 按扩展名选择读取器：.csv 使用 CSV，其余按 Excel 工作簿处理。
// 失败时返回 failure.DataLoad 错误，包含文件路径与原因。
func Read(path string) (*Sheet, error) {
	var (
		sheet *Sheet
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		sheet, err = readCSV(path)
	default:
		sheet, err = readWorkbook(path)
	}
	if err != nil {
		return nil, failure.DataLoad(path, err)
	}
	return sheet, nil
}

func split(rows [][]any) *Sheet {
	if len(rows) == 0 {
		return &Sheet{}
	}
	headers := make([]string, len(rows[0]))
	for i, v := range rows[0] {
		headers[i] = Format(v)
	}
	return &Sheet{Headers: headers, Rows: rows[1:]}
}
