package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDebugJSON 将第 index 条记录的布局结果写入 dir/layout_<index>.json，返回文件路径。
func WriteDebugJSON(res *Result, dir string, index int) (string, error) {
	if res == nil {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建调试目录失败: %w", err)
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("layout_%d.json", index))
	return path, os.WriteFile(path, data, 0o644)
}
