// Package binding 展开输出文件名模板中的 ${name} 占位符。
package binding

import (
	"regexp"
	"strings"

	"github.com/ByLCY/certify/table"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// 文件名中不允许出现的字符。
var unsafeName = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "\n", "_", "\r", "_", "\t", "_",
)

// Keys 按出现顺序返回 pattern 中的占位符名称（已去除首尾空白，可能重复）。
func Keys(pattern string) []string {
	var keys []string
	for _, groups := range exprPattern.FindAllStringSubmatch(pattern, -1) {
		keys = append(keys, strings.TrimSpace(groups[1]))
	}
	return keys
}

// Filename 将 pattern 中的 ${name} 整体匹配 vars 中的键并替换为其值，
// 替换值中的路径分隔符等字符会被换成 "_"，保证结果是单个文件名。
// vars 中不存在的占位符原样保留，调用方应先用 Keys 检查。
func Filename(pattern string, vars map[string]any) string {
	name := exprPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		key := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		val, ok := vars[key]
		if !ok {
			return match
		}
		s := unsafeName.Replace(strings.TrimSpace(table.Format(val)))
		if s == "." || s == ".." {
			return "_"
		}
		return s
	})
	return strings.TrimSpace(name)
}
