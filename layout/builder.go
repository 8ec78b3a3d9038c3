package layout

import (
	"fmt"
)

// Build 按顺序排版各列文本：逐行绘制在 (X, 游标) 处，每行后游标下移 LineSpacing，
// 每列结束后再下移该列的 Spacing。游标低于底部边界时开启新页并回到 Y。
func Build(blocks []Block, flow Flow, opts BuildOptions) (*Result, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if flow.PageWidth <= 0 || flow.PageHeight <= 0 {
		return nil, fmt.Errorf("layout: 页面尺寸无效 %gx%g", flow.PageWidth, flow.PageHeight)
	}
	limit := flow.MaxLineWidth
	if limit <= 0 {
		limit = DefaultMaxLineWidth
	}

	collector := newPageCollector(flow.PageWidth, flow.PageHeight)
	cursor := &flowCursor{flow: flow, y: flow.Y, collector: collector}

	for _, block := range blocks {
		lines, err := Wrap(block.Text, limit, block.Font, block.FontSize, opts.Typesetter)
		if err != nil {
			return nil, fmt.Errorf("列 %q 折行失败: %w", block.Column, err)
		}
		for _, line := range lines {
			collector.curr().appendText(TextRun{
				Column:   block.Column,
				Content:  line,
				X:        flow.X,
				Y:        cursor.y,
				Font:     block.Font,
				FontSize: block.FontSize,
				Color:    block.Color,
			})
			cursor.advance(flow.LineSpacing)
		}
		cursor.advance(block.Spacing)
	}

	return &Result{
		Pages: collector.pages(),
		Meta:  opts.Meta,
	}, nil
}

type flowCursor struct {
	flow      Flow
	y         float64
	collector *pageCollector
}

// advance 下移游标；越过底部边界时换页。
func (c *flowCursor) advance(dy float64) {
	if dy == 0 {
		return
	}
	c.y -= dy
	if c.y < c.bottom() {
		c.collector.newPage()
		c.y = c.flow.Y
	}
}

func (c *flowCursor) bottom() float64 {
	if c.flow.BottomMargin > 0 {
		return c.flow.BottomMargin
	}
	return DefaultBottomMargin
}

type pageAccumulator struct {
	texts []TextRun
}

func (p *pageAccumulator) appendText(run TextRun) {
	p.texts = append(p.texts, run)
}

type pageCollector struct {
	width   float64
	height  float64
	accs    []*pageAccumulator
	current int
}

func newPageCollector(width, height float64) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
	}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	pc.current = len(pc.accs) - 1
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	if len(pc.accs) == 0 {
		return pc.newPage()
	}
	return pc.accs[pc.current]
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.width,
			Height: pc.height,
			Texts:  acc.texts,
		}
	}
	return out
}
