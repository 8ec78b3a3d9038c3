package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/certify/fonts"
	"github.com/ByLCY/certify/layout"
	"github.com/ByLCY/certify/renderer"
)

// Renderer draws overlay layouts via github.com/tdewolff/canvas.
// Fonts are resolved by name from a caller-owned registry.
type Renderer struct {
	fonts *fonts.Registry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Overlay  = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a canvas-based renderer backed by registry.
func NewRenderer(registry *fonts.Registry) *Renderer {
	if registry == nil {
		registry = fonts.NewRegistry()
	}
	return &Renderer{fonts: registry}
}

// Render renders every overlay page into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, layout.ToMM(first.Width), layout.ToMM(first.Height), nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		w, h := layout.ToMM(page.Width), layout.ToMM(page.Height)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c) // 左下角为原点，与 PDF 坐标一致

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	writer.SetInfo(meta.Title, meta.Subject, "", meta.Author, meta.Creator)
}

// TextWidth 实现 layout.Typesetter：返回 content 在指定字号（pt）下的宽度（pt）。
// 测量与绘制共用 fontFace，因此折行位置与实际字形宽度一致。
func (r *Renderer) TextWidth(content string, font string, fontSize float64) (float64, error) {
	face, err := r.fontFace(font, fontSize, layout.Black)
	if err != nil {
		return 0, err
	}
	return layout.ToPT(face.TextWidth(content)), nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, run := range page.Texts {
		face, err := r.fontFace(run.Font, run.FontSize, run.Color)
		if err != nil {
			return err
		}
		line := canvas.NewTextLine(face, run.Content, canvas.Left)
		// run.Y 为基线位置
		ctx.DrawText(layout.ToMM(run.X), layout.ToMM(run.Y), line)
	}
	return nil
}

func (r *Renderer) fontFace(name string, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, ok := r.fonts.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("字体 %s 尚未注册", name)
	}
	if sizePt <= 0 {
		return nil, fmt.Errorf("字体 %s 字号无效: %g", name, sizePt)
	}
	return family.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(c.R, c.G, c.B, 1.0)
}
