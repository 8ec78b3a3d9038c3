package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Meta       DocumentMeta
}

// Flow 描述覆盖层上的文本流：起点、行距、折行宽度与页面底部边界。
type Flow struct {
	X            float64
	Y            float64
	LineSpacing  float64
	MaxLineWidth float64 // <=0 时使用 DefaultMaxLineWidth
	BottomMargin float64 // <=0 时使用 DefaultBottomMargin
	PageWidth    float64
	PageHeight   float64
}

// Typesetter 负责测量文本宽度（pt），必须与绘制时使用同一套字体度量。
type Typesetter interface {
	TextWidth(content string, font string, fontSize float64) (float64, error)
}
