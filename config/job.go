package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/certify/dsl"
	"github.com/ByLCY/certify/failure"
	"github.com/ByLCY/certify/layout"
)

// DefaultPattern 是输出文件名模板，${index} 为从 1 开始的记录序号。
const DefaultPattern = "certificate_${index}.pdf"

// Job 是一次批量生成任务：数据来源、输出位置与渲染参数。
// 任务文件中的相对路径以任务文件所在目录为基准。
type Job struct {
	Name      string
	DataPath  string
	OutputDir string
	Pattern   string
	Render    Options
}

// Build 校验渲染参数并返回只读配置。
func (j *Job) Build() (*RenderConfig, error) {
	return New(j.Render)
}

// LoadJob 读取任务文件：.yaml/.yml 使用 YAML，其余按任务 DSL 解析。
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, failure.Config(path, "读取任务文件失败", err)
	}

	var job *Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		job, err = decodeYAML(data)
	default:
		job, err = decodeDSL(path, string(data))
	}
	if err != nil {
		return nil, failure.Config(path, "解析任务文件失败", err)
	}
	job.resolve(filepath.Dir(path))
	return job, nil
}

func (j *Job) resolve(baseDir string) {
	if j.Pattern == "" {
		j.Pattern = DefaultPattern
	}
	j.DataPath = resolvePath(baseDir, j.DataPath)
	j.OutputDir = resolvePath(baseDir, j.OutputDir)
	j.Render.TemplatePath = resolvePath(baseDir, j.Render.TemplatePath)
	j.Render.FontPath = resolvePath(baseDir, j.Render.FontPath)
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

type yamlJob struct {
	Name         string       `yaml:"name"`
	Data         string       `yaml:"data"`
	Template     string       `yaml:"template"`
	Font         string       `yaml:"font"`
	FontName     string       `yaml:"font_name"`
	Output       string       `yaml:"output"`
	Pattern      string       `yaml:"pattern"`
	X            *float64     `yaml:"x"`
	Y            *float64     `yaml:"y"`
	LineSpacing  float64      `yaml:"line_spacing"`
	MaxLineWidth float64      `yaml:"max_line_width"`
	BottomMargin float64      `yaml:"bottom_margin"`
	PageSize     string       `yaml:"page_size"`
	Columns      []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name    string   `yaml:"name"`
	Include *bool    `yaml:"include"`
	Header  bool     `yaml:"header"`
	Size    float64  `yaml:"size"`
	Spacing *float64 `yaml:"spacing"`
	Color   string   `yaml:"color"`
}

func decodeYAML(data []byte) (*Job, error) {
	var raw yamlJob
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	job := &Job{
		Name:      raw.Name,
		DataPath:  raw.Data,
		OutputDir: raw.Output,
		Pattern:   raw.Pattern,
		Render: Options{
			TemplatePath: raw.Template,
			FontPath:     raw.Font,
			FontName:     raw.FontName,
			X:            raw.X,
			Y:            raw.Y,
			LineSpacing:  raw.LineSpacing,
			MaxLineWidth: raw.MaxLineWidth,
			BottomMargin: raw.BottomMargin,
			PageSize:     PageSize(strings.ToLower(raw.PageSize)),
		},
	}
	for _, rc := range raw.Columns {
		col := Column{
			Name:       rc.Name,
			Include:    rc.Include == nil || *rc.Include,
			ShowHeader: rc.Header,
			FontSize:   rc.Size,
			Spacing:    DefaultColumnSpacing,
		}
		if rc.Spacing != nil {
			col.Spacing = *rc.Spacing
		}
		if rc.Color != "" {
			c, err := layout.ParseHex(rc.Color)
			if err != nil {
				return nil, fmt.Errorf("列 %q: %w", rc.Name, err)
			}
			col.Color = c
		}
		job.Render.Columns = append(job.Render.Columns, col)
	}
	return job, nil
}

func decodeDSL(filename, content string) (*Job, error) {
	file, err := dsl.Parse(filename, strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	job := &Job{Name: file.Name}
	for _, entry := range file.Entries {
		switch {
		case entry.Setting != nil:
			if err := applyJobSetting(job, entry.Setting); err != nil {
				return nil, err
			}
		case entry.Column != nil:
			col, err := columnFromBlock(entry.Column)
			if err != nil {
				return nil, err
			}
			job.Render.Columns = append(job.Render.Columns, col)
		}
	}
	return job, nil
}

func applyJobSetting(job *Job, s *dsl.Setting) error {
	var err error
	switch s.Key {
	case "data":
		job.DataPath = s.Value.Text()
	case "template":
		job.Render.TemplatePath = s.Value.Text()
	case "font":
		job.Render.FontPath = s.Value.Text()
	case "font-name":
		job.Render.FontName = s.Value.Text()
	case "output":
		job.OutputDir = s.Value.Text()
	case "pattern":
		job.Pattern = s.Value.Text()
	case "page-size":
		job.Render.PageSize = PageSize(strings.ToLower(s.Value.Text()))
	case "x":
		var v float64
		v, err = s.Value.Float()
		job.Render.X = &v
	case "y":
		var v float64
		v, err = s.Value.Float()
		job.Render.Y = &v
	case "line-spacing":
		job.Render.LineSpacing, err = s.Value.Float()
	case "max-line-width":
		job.Render.MaxLineWidth, err = s.Value.Float()
	case "bottom-margin":
		job.Render.BottomMargin, err = s.Value.Float()
	default:
		return fmt.Errorf("%s: 未知设置 %q", s.Pos, s.Key)
	}
	if err != nil {
		return fmt.Errorf("%s: 设置 %s: %w", s.Pos, s.Key, err)
	}
	return nil
}

func columnFromBlock(block *dsl.ColumnBlock) (Column, error) {
	col := Column{Name: string(block.Name), Include: true, Spacing: DefaultColumnSpacing}
	for _, s := range block.Settings {
		var err error
		switch s.Key {
		case "include":
			col.Include, err = s.Value.Bool()
		case "header":
			col.ShowHeader, err = s.Value.Bool()
		case "size":
			col.FontSize, err = s.Value.Float()
		case "spacing":
			col.Spacing, err = s.Value.Float()
		case "color":
			col.Color, err = layout.ParseHex(s.Value.Text())
		default:
			return Column{}, fmt.Errorf("%s: 列 %q 未知设置 %q", s.Pos, col.Name, s.Key)
		}
		if err != nil {
			return Column{}, fmt.Errorf("%s: 列 %q 设置 %s: %w", s.Pos, col.Name, s.Key, err)
		}
	}
	return col, nil
}
