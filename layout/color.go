package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 采用 0-1 的 RGB 分量。
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black 是未配置颜色时的默认填充色。
var Black = Color{}

// Valid 报告各分量是否都落在 [0,1] 内。
func (c Color) Valid() bool {
	for _, v := range []float64{c.R, c.G, c.B} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Hex 返回 #rrggbb 形式。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// ParseHex 解析 #rgb、#rrggbb 或 #rrggbbaa（忽略 alpha），前导 # 可省略。
func ParseHex(value string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(raw) {
	case 3:
		raw = strings.Repeat(raw[0:1], 2) + strings.Repeat(raw[1:2], 2) + strings.Repeat(raw[2:3], 2)
	case 6:
	case 8:
		raw = raw[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var out [3]float64
	for i := range out {
		v, err := strconv.ParseUint(raw[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		out[i] = float64(v) / 255.0
	}
	return Color{R: out[0], G: out[1], B: out[2]}, nil
}

func channel(v float64) int {
	n := int(v*255 + 0.5)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
