package certificate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ByLCY/certify/binding"
	"github.com/ByLCY/certify/config"
	"github.com/ByLCY/certify/failure"
	"github.com/ByLCY/certify/table"
)

// Naming 决定每条记录的输出路径：Dir 下按 Pattern 展开的文件名。
// Pattern 中 ${index} 为从 1 开始的记录序号，其余 ${列名} 取记录中的值；
// 若表格恰有名为 index 的列，序号优先。缺少 .pdf 扩展名时自动补上。
type Naming struct {
	Dir     string
	Pattern string
}

// Path 返回第 index 条记录的输出路径。
// 占位符对应的列在记录中不存在，或展开后文件名主体为空时返回 failure.Config。
func (n Naming) Path(index int, rec table.Record) (string, error) {
	pattern := n.Pattern
	if pattern == "" {
		pattern = config.DefaultPattern
	}
	for _, key := range binding.Keys(pattern) {
		if key == "index" {
			continue
		}
		if _, ok := rec[key]; !ok {
			return "", failure.Config("", fmt.Sprintf("文件名模板 %q 中的 ${%s} 在记录中不存在", pattern, key), nil)
		}
	}

	vars := make(map[string]any, len(rec)+1)
	for k, v := range rec {
		vars[k] = v
	}
	vars["index"] = index

	name := binding.Filename(pattern, vars)
	stem := name
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		stem = name[:len(name)-len(".pdf")]
	} else {
		name += ".pdf"
	}
	if strings.TrimSpace(stem) == "" {
		return "", failure.Config("", fmt.Sprintf("文件名模板 %q 展开后文件名为空", pattern), nil)
	}
	return filepath.Join(n.Dir, name), nil
}
