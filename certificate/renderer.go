// Package certificate 为每条表格记录生成一张证书：
// 排版各列文本到透明覆盖层，再把覆盖层第一页叠加到模板第一页上。
package certificate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/certify/compose"
	"github.com/ByLCY/certify/config"
	"github.com/ByLCY/certify/failure"
	"github.com/ByLCY/certify/fonts"
	"github.com/ByLCY/certify/layout"
	"github.com/ByLCY/certify/renderer"
	canvasrenderer "github.com/ByLCY/certify/renderer/canvas"
	"github.com/ByLCY/certify/table"
)

// Renderer 按只读配置渲染证书。除字体表外不持有可变状态。
type Renderer struct {
	cfg     *config.RenderConfig
	fonts   *fonts.Registry
	overlay renderer.Overlay
	logger  *zap.Logger
}

// Option 配置 Renderer。
type Option func(*Renderer)

// WithRegistry 指定字体表，便于多个 Renderer 共享已解析的字体。
func WithRegistry(registry *fonts.Registry) Option {
	return func(r *Renderer) { r.fonts = registry }
}

// WithLogger 指定日志输出，默认不输出。
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) { r.logger = logger }
}

// WithOverlay 替换覆盖层的绘制与测量后端。
func WithOverlay(overlay renderer.Overlay) Option {
	return func(r *Renderer) { r.overlay = overlay }
}

// Output 描述一次渲染的结果。
type Output struct {
	Path string
	// OverlayPages 是覆盖层的总页数；只有第一页会进入输出文件。
	OverlayPages int
	// Runs 是实际叠加到输出页上的文本行。
	Runs []layout.TextRun
	// Dropped 是因换页落到覆盖层第 2 页及以后、未进入输出的文本行数。
	Dropped int
	Layout  *layout.Result
}

// New 创建 Renderer。
func New(cfg *config.RenderConfig, opts ...Option) *Renderer {
	r := &Renderer{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.fonts == nil {
		r.fonts = fonts.NewRegistry()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.overlay == nil {
		r.overlay = canvasrenderer.NewRenderer(r.fonts)
	}
	return r
}

// Render 渲染第 index 条记录（从 1 开始）并写入 outputPath。
// 失败时返回 *failure.Error，携带记录序号；输出路径上不会留下半写文件。
func (r *Renderer) Render(index int, rec table.Record, outputPath string) (*Output, error) {
	out, err := r.render(index, rec, outputPath)
	if err != nil {
		return nil, failure.Render(index, err)
	}
	return out, nil
}

func (r *Renderer) render(index int, rec table.Record, outputPath string) (*Output, error) {
	if r.cfg == nil {
		return nil, fmt.Errorf("缺少渲染配置")
	}
	if outputPath == "" {
		return nil, fmt.Errorf("未指定输出路径")
	}
	cfg := r.cfg

	if _, err := r.fonts.Register(cfg.FontName(), cfg.FontPath()); err != nil {
		return nil, failure.Font(cfg.FontPath(), err)
	}

	tpl, err := compose.Inspect(cfg.TemplatePath())
	if err != nil {
		return nil, err
	}
	width, height := tpl.Width, tpl.Height
	if cfg.PageSize() == config.PageSizeA4 {
		width, height = layout.A4Width, layout.A4Height
	}

	x, y := cfg.Origin()
	res, err := layout.Build(Blocks(cfg, rec), layout.Flow{
		X:            x,
		Y:            y,
		LineSpacing:  cfg.LineSpacing(),
		MaxLineWidth: cfg.MaxLineWidth(),
		BottomMargin: cfg.BottomMargin(),
		PageWidth:    width,
		PageHeight:   height,
	}, layout.BuildOptions{
		Typesetter: r.overlay,
		Meta: layout.DocumentMeta{
			Title:   fmt.Sprintf("certificate #%d", index),
			Creator: "certify",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}

	overlayPDF, err := r.overlay.Render(res)
	if err != nil {
		return nil, fmt.Errorf("绘制覆盖层失败: %w", err)
	}

	var merged bytes.Buffer
	if err := compose.Stamp(cfg.TemplatePath(), overlayPDF, &merged); err != nil {
		return nil, err
	}
	if err := writeAtomic(outputPath, merged.Bytes()); err != nil {
		return nil, fmt.Errorf("写入证书 %s 失败: %w", outputPath, err)
	}

	out := &Output{
		Path:         outputPath,
		OverlayPages: len(res.Pages),
		Runs:         res.Pages[0].Texts,
		Layout:       res,
	}
	for _, page := range res.Pages[1:] {
		out.Dropped += len(page.Texts)
	}
	if out.Dropped > 0 {
		r.logger.Warn("文本超出覆盖层第一页，超出部分未写入证书",
			zap.Int("index", index),
			zap.Int("overlay_pages", out.OverlayPages),
			zap.Int("dropped", out.Dropped),
			zap.String("output", outputPath))
	}
	return out, nil
}

// Blocks 按配置中的列顺序生成待排版文本；未包含的列与记录中不存在的列被跳过。
func Blocks(cfg *config.RenderConfig, rec table.Record) []layout.Block {
	var blocks []layout.Block
	for _, col := range cfg.Columns() {
		if !col.Include {
			continue
		}
		value, ok := rec.Lookup(col.Name)
		if !ok {
			continue
		}
		text := value
		if col.ShowHeader {
			text = col.Name + ": " + value
		}
		blocks = append(blocks, layout.Block{
			Column:   col.Name,
			Text:     text,
			Font:     cfg.FontName(),
			FontSize: col.FontSize,
			Spacing:  col.Spacing,
			Color:    col.Color,
		})
	}
	return blocks
}

// writeAtomic 先写入同目录下的临时文件，成功后再重命名为目标文件。
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".certificate-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
