package failure

import (
	"errors"
	"fmt"

	errorslib "github.com/goliatone/go-errors"
)

// Kind 区分证书流水线中的错误类别。
type Kind string

const (
	KindDataLoad Kind = "data_load"
	KindTemplate Kind = "template"
	KindFont     Kind = "font_load"
	KindRender   Kind = "render"
	KindConfig   Kind = "config"
)

// NoIndex 表示错误与具体记录无关。
const NoIndex = 0

// Error 携带类别、相关文件路径与记录序号（从 1 开始，0 表示无）。
type Error struct {
	Kind  Kind
	Path  string
	Index int
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Index > 0 {
		msg = fmt.Sprintf("记录 #%d: %s", e.Index, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// DataLoad 表示表格文件无法打开、解析或缺少活动工作表。
func DataLoad(path string, err error) *Error {
	return &Error{Kind: KindDataLoad, Path: path, Msg: "读取表格数据失败", Err: err}
}

// Template 表示模板 PDF 缺失、无法解析或没有页面。
func Template(path string, err error) *Error {
	return &Error{Kind: KindTemplate, Path: path, Msg: "读取 PDF 模板失败", Err: err}
}

// Font 表示字体文件缺失或格式错误。
func Font(path string, err error) *Error {
	return &Error{Kind: KindFont, Path: path, Msg: "加载字体失败", Err: err}
}

// Config 表示渲染配置或任务文件不合法。
func Config(path, msg string, err error) *Error {
	return &Error{Kind: KindConfig, Path: path, Msg: msg, Err: err}
}

// Render 包装单条记录渲染过程中的失败。
// 若 err 已经是带类别的 *Error，则保留其类别，只补充记录序号。
func Render(index int, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) && typed.Index == NoIndex {
		clone := *typed
		clone.Index = index
		return &clone
	}
	return &Error{Kind: KindRender, Index: index, Msg: "渲染证书失败", Err: err}
}

// KindOf 返回错误链上第一个 *Error 的类别；未知错误按渲染错误处理。
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindRender
}

// AsGoError 将错误映射为 go-errors 错误，供命令行输出单条可读信息。
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	msg := err.Error()
	switch KindOf(err) {
	case KindDataLoad:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode(string(KindDataLoad))
	case KindTemplate:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode(string(KindTemplate))
	case KindFont:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode(string(KindFont))
	case KindConfig:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode(string(KindConfig))
	default:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode(string(KindRender))
	}
}
