// Package compose 读取 PDF 模板并将覆盖层第一页叠加到模板第一页上。
package compose

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/ByLCY/certify/failure"
)

// 覆盖层按原尺寸、左下角对齐、不旋转地叠加在模板内容之上。
const stampDesc = "position:bl, offset:0 0, scalefactor:1 abs, rotation:0, opacity:1"

// Template 描述模板的页数与第一页尺寸（pt）。
type Template struct {
	Pages  int
	Width  float64
	Height float64
}

// Inspect 解析模板；文件缺失、无法解析或没有页面时返回 failure.Template。
func Inspect(path string) (Template, error) {
	ctx, err := readContext(path)
	if err != nil {
		return Template{}, failure.Template(path, err)
	}
	if ctx.PageCount == 0 {
		return Template{}, failure.Template(path, fmt.Errorf("模板没有页面"))
	}

	_, _, inh, err := ctx.PageDict(1, false)
	if err != nil {
		return Template{}, failure.Template(path, fmt.Errorf("读取第 1 页失败: %w", err))
	}
	box := inh.CropBox
	if box == nil {
		box = inh.MediaBox
	}
	if box == nil {
		return Template{}, failure.Template(path, fmt.Errorf("第 1 页缺少页面尺寸"))
	}
	return Template{Pages: ctx.PageCount, Width: box.Width(), Height: box.Height()}, nil
}

func readContext(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Stamp 只保留模板第一页，并把 overlay 的第一页叠加其上，结果写入 w。
// overlay 其余页面不会出现在输出中。
func Stamp(templatePath string, overlay []byte, w io.Writer) error {
	if len(overlay) == 0 {
		return fmt.Errorf("覆盖层为空")
	}
	conf := model.NewDefaultConfiguration()

	first, err := firstPage(templatePath, conf)
	if err != nil {
		return failure.Template(templatePath, err)
	}

	// PDF 水印只能从文件读取，覆盖层先落到临时文件。
	tmp, err := os.CreateTemp("", "certify-overlay-*.pdf")
	if err != nil {
		return fmt.Errorf("创建覆盖层临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(overlay); err != nil {
		tmp.Close()
		return fmt.Errorf("写入覆盖层临时文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入覆盖层临时文件失败: %w", err)
	}

	wm, err := api.PDFWatermark(tmp.Name()+":1", stampDesc, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("解析覆盖层失败: %w", err)
	}
	if err := api.AddWatermarks(bytes.NewReader(first), w, []string{"1"}, wm, conf); err != nil {
		return fmt.Errorf("叠加覆盖层失败: %w", err)
	}
	return nil
}

func firstPage(path string, conf *model.Configuration) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := api.Trim(f, &buf, []string{"1"}, conf); err != nil {
		return nil, fmt.Errorf("截取模板第 1 页失败: %w", err)
	}
	return buf.Bytes(), nil
}
