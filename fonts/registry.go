package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
)

// Registry 是由调用方持有的字体表，按逻辑名称缓存已解析的字体族。
// 同一名称与路径重复注册直接返回缓存；加载失败时不会写入任何条目。
type Registry struct {
	mu       sync.Mutex
	families map[string]*entry
}

type entry struct {
	path   string
	family *canvas.FontFamily
}

// NewRegistry 创建空的字体表。
func NewRegistry() *Registry {
	return &Registry{families: map[string]*entry{}}
}

// Register 从 path 加载字体并以 name 注册。
func (r *Registry) Register(name, path string) (*canvas.FontFamily, error) {
	if name == "" {
		return nil, fmt.Errorf("字体名称不能为空")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.families[name]; ok && e.path == path {
		return e.family, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
	}
	family, err := Parse(name, data)
	if err != nil {
		return nil, fmt.Errorf("解析字体文件 %s 失败: %w", path, err)
	}
	r.families[name] = &entry{path: path, family: family}
	return family, nil
}

// Lookup 返回已注册的字体族。
func (r *Registry) Lookup(name string) (*canvas.FontFamily, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.families[name]
	if !ok {
		return nil, false
	}
	return e.family, true
}

// Parse 将字体字节解析为只含常规字重的字体族。
func Parse(name string, data []byte) (*canvas.FontFamily, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("字体 %s 数据为空", name)
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	return family, nil
}
