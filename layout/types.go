package layout

// 该文件定义覆盖层布局结果，供布局计算、渲染与调试 JSON 共用。
// 所有坐标与尺寸均以 pt 为单位，原点位于页面左下角（与 PDF 一致）。

// Result 保存覆盖层的全部页面。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸与已经定位好的文本。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Texts  []TextRun `json:"texts"`
}

// TextRun 是一行已经折行、定位完成的文本，字体与颜色随行携带，
// 因此换页后无需额外恢复绘图状态。
type TextRun struct {
	Column   string  `json:"column"`
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"` // 基线
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
}

// Block 是某一列待排版的文本及其样式。
type Block struct {
	Column   string  `json:"column"`
	Text     string  `json:"text"`
	Font     string  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Spacing  float64 `json:"spacing"` // 该列结束后额外下移的距离
	Color    Color   `json:"color"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}

// Runs 返回所有页面上的文本行（按页序）。
func (r *Result) Runs() []TextRun {
	if r == nil {
		return nil
	}
	var out []TextRun
	for _, p := range r.Pages {
		out = append(out, p.Texts...)
	}
	return out
}
