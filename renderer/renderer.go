package renderer

import "github.com/ByLCY/certify/layout"

// Renderer 将覆盖层布局结果输出为 PDF 字节（每个布局页面对应一页）。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Overlay 同时具备绘制与测量能力，保证折行与绘制使用同一套字体度量。
type Overlay interface {
	Renderer
	layout.Typesetter
}
