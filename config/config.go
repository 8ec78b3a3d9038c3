package config

import (
	"fmt"
	"os"

	"github.com/ByLCY/certify/failure"
	"github.com/ByLCY/certify/layout"
)

// 默认值与原有桌面程序的渲染函数一致：列未配置时字号 12、间距 0、黑色。
const (
	DefaultX           = 220.0
	DefaultY           = 380.0
	DefaultLineSpacing = 20.0
	DefaultFontSize    = 12.0
	DefaultFontName    = "CustomFont"
)

// DefaultColumnSpacing 是任务文件与命令行列出的列在未写 spacing 时的间距，
// 对应桌面程序未打开文字设置时给每个选中列的 10。
const DefaultColumnSpacing = 10.0

// PageSize 决定覆盖层页面尺寸。
type PageSize string

const (
	// PageSizeTemplate 使用模板第一页的尺寸。
	PageSizeTemplate PageSize = "template"
	// PageSizeA4 固定为 A4。
	PageSizeA4 PageSize = "a4"
)

// Column 描述一列的显示方式。
type Column struct {
	Name       string
	Include    bool
	ShowHeader bool
	FontSize   float64
	Spacing    float64
	Color      layout.Color
}

// Options 是构造 RenderConfig 的可变输入；零值字段会被填充为默认值。
type Options struct {
	TemplatePath string
	FontPath     string
	FontName     string
	X            *float64
	Y            *float64
	LineSpacing  float64
	MaxLineWidth float64
	BottomMargin float64
	PageSize     PageSize
	Columns      []Column
}

// RenderConfig 是校验通过后的只读渲染配置，可在多次渲染间共享。
type RenderConfig struct {
	templatePath string
	fontPath     string
	fontName     string
	x, y         float64
	lineSpacing  float64
	maxLineWidth float64
	bottomMargin float64
	pageSize     PageSize
	columns      []Column
	index        map[string]int
}

// New 校验 opts 并构造 RenderConfig。模板与字体文件必须存在，
// 缺失时分别返回 failure.Template 与 failure.Font，其余问题返回 failure.Config。
func New(opts Options) (*RenderConfig, error) {
	cfg := &RenderConfig{
		templatePath: opts.TemplatePath,
		fontPath:     opts.FontPath,
		fontName:     opts.FontName,
		x:            DefaultX,
		y:            DefaultY,
		lineSpacing:  opts.LineSpacing,
		maxLineWidth: opts.MaxLineWidth,
		bottomMargin: opts.BottomMargin,
		pageSize:     opts.PageSize,
		index:        make(map[string]int, len(opts.Columns)),
	}
	if opts.X != nil {
		cfg.x = *opts.X
	}
	if opts.Y != nil {
		cfg.y = *opts.Y
	}
	if cfg.fontName == "" {
		cfg.fontName = DefaultFontName
	}
	if cfg.lineSpacing == 0 {
		cfg.lineSpacing = DefaultLineSpacing
	}
	if cfg.maxLineWidth == 0 {
		cfg.maxLineWidth = layout.DefaultMaxLineWidth
	}
	if cfg.bottomMargin == 0 {
		cfg.bottomMargin = layout.DefaultBottomMargin
	}
	if cfg.pageSize == "" {
		cfg.pageSize = PageSizeTemplate
	}

	if err := requireFile(cfg.templatePath, "模板", failure.Template); err != nil {
		return nil, err
	}
	if err := requireFile(cfg.fontPath, "字体", failure.Font); err != nil {
		return nil, err
	}
	switch {
	case cfg.lineSpacing < 0:
		return nil, invalid("行距不能为负数: %g", cfg.lineSpacing)
	case cfg.maxLineWidth < 0:
		return nil, invalid("最大行宽不能为负数: %g", cfg.maxLineWidth)
	case cfg.bottomMargin < 0:
		return nil, invalid("底部边界不能为负数: %g", cfg.bottomMargin)
	}
	if cfg.pageSize != PageSizeTemplate && cfg.pageSize != PageSizeA4 {
		return nil, invalid("未知的页面尺寸 %q", cfg.pageSize)
	}

	cfg.columns = make([]Column, 0, len(opts.Columns))
	for _, col := range opts.Columns {
		if col.FontSize == 0 {
			col.FontSize = DefaultFontSize
		}
		switch {
		case col.Name == "":
			return nil, invalid("列名不能为空")
		case col.FontSize < 0:
			return nil, invalid("列 %q 字号无效: %g", col.Name, col.FontSize)
		case col.Spacing < 0:
			return nil, invalid("列 %q 间距不能为负数: %g", col.Name, col.Spacing)
		case !col.Color.Valid():
			return nil, invalid("列 %q 颜色超出 [0,1] 范围: %+v", col.Name, col.Color)
		}
		if _, dup := cfg.index[col.Name]; dup {
			return nil, invalid("列 %q 重复定义", col.Name)
		}
		cfg.index[col.Name] = len(cfg.columns)
		cfg.columns = append(cfg.columns, col)
	}
	return cfg, nil
}

// requireFile 检查文件存在且不是目录；缺失时按 missing 给出的类别报错。
func requireFile(path, what string, missing func(string, error) *failure.Error) error {
	if path == "" {
		return missing("", fmt.Errorf("未指定%s文件", what))
	}
	info, err := os.Stat(path)
	if err != nil {
		return missing(path, err)
	}
	if info.IsDir() {
		return missing(path, fmt.Errorf("%s路径是目录", what))
	}
	return nil
}

func invalid(format string, args ...any) error {
	return failure.Config("", fmt.Sprintf(format, args...), nil)
}

func (c *RenderConfig) TemplatePath() string   { return c.templatePath }
func (c *RenderConfig) FontPath() string       { return c.fontPath }
func (c *RenderConfig) FontName() string       { return c.fontName }
func (c *RenderConfig) Origin() (x, y float64) { return c.x, c.y }
func (c *RenderConfig) LineSpacing() float64   { return c.lineSpacing }
func (c *RenderConfig) MaxLineWidth() float64  { return c.maxLineWidth }
func (c *RenderConfig) BottomMargin() float64  { return c.bottomMargin }
func (c *RenderConfig) PageSize() PageSize     { return c.pageSize }

// Columns 按声明顺序返回列配置的副本。
func (c *RenderConfig) Columns() []Column {
	out := make([]Column, len(c.columns))
	copy(out, c.columns)
	return out
}

// Column 按列名查找配置。
func (c *RenderConfig) Column(name string) (Column, bool) {
	i, ok := c.index[name]
	if !ok {
		return Column{}, false
	}
	return c.columns[i], true
}
