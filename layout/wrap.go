package layout

import (
	"fmt"
	"strings"
)

// Wrap 使用贪心算法按宽度折行：只要 "当前行 + 空格 + 下一个词" 的测量宽度
// 严格小于 limit 就继续累积，否则输出当前行并以该词开始新行。
// 单个超宽的词独占一行，不在词内拆分。空白文本返回空切片。
func Wrap(content string, limit float64, font string, fontSize float64, ts Typesetter) ([]string, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil, nil
	}

	var lines []string
	current := ""
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		candidate := current + " " + word
		width, err := ts.TextWidth(candidate, font, fontSize)
		if err != nil {
			return nil, err
		}
		if width < limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines, nil
}
