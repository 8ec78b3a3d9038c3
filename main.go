package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ByLCY/certify/certificate"
	"github.com/ByLCY/certify/config"
	"github.com/ByLCY/certify/failure"
	"github.com/ByLCY/certify/table"
)

type flags struct {
	job       string
	data      string
	template  string
	font      string
	out       string
	pattern   string
	debug     string
	keepGoing bool
	json      bool
}

func main() {
	var f flags
	flag.StringVar(&f.job, "job", "", "任务文件路径（.cert DSL 或 .yaml）")
	flag.StringVar(&f.data, "data", "", "表格数据文件（.xlsx 或 .csv），覆盖任务文件设置")
	flag.StringVar(&f.template, "template", "", "PDF 模板路径，覆盖任务文件设置")
	flag.StringVar(&f.font, "font", "", "字体文件路径，覆盖任务文件设置")
	flag.StringVar(&f.out, "out", "", "证书输出目录，覆盖任务文件设置")
	flag.StringVar(&f.pattern, "pattern", "", "输出文件名模板，默认 "+config.DefaultPattern)
	flag.StringVar(&f.debug, "debug", "", "布局调试 JSON 输出目录")
	flag.BoolVar(&f.keepGoing, "keep-going", false, "单条记录失败后继续处理其余记录")
	flag.BoolVar(&f.json, "json", false, "以 JSON 格式输出日志")
	flag.Parse()

	logger, err := newLogger(f.json)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	summary, err := run(f, logger)
	if summary != nil {
		fmt.Printf("已生成证书 %d 份，失败 %d 份\n", len(summary.Outputs), summary.Failed)
	}
	if err != nil {
		ge := failure.AsGoError(err)
		logger.Error("生成证书失败", zap.String("category", ge.Category.String()), zap.String("code", ge.TextCode))
		fmt.Fprintf(os.Stderr, "生成证书失败: %s\n", ge.Message)
		os.Exit(1)
	}
}

func newLogger(asJSON bool) (*zap.Logger, error) {
	if asJSON {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// run 串联任务加载、数据读取与批量渲染。
func run(f flags, logger *zap.Logger) (*certificate.Summary, error) {
	job, err := loadJob(f)
	if err != nil {
		return nil, err
	}
	if job.DataPath == "" {
		return nil, failure.Config("", "未指定表格数据文件（-data 或任务文件中的 data）", nil)
	}

	records, err := table.Load(job.DataPath)
	if err != nil {
		return nil, err
	}
	if len(job.Render.Columns) == 0 {
		// 未声明列时按表头顺序输出全部列，与桌面程序的列表一致。
		headers, err := table.Headers(job.DataPath)
		if err != nil {
			return nil, err
		}
		job.Render.Columns = defaultColumns(headers)
	}

	cfg, err := job.Build()
	if err != nil {
		return nil, err
	}

	r := certificate.New(cfg, certificate.WithLogger(logger))
	naming := certificate.Naming{Dir: job.OutputDir, Pattern: job.Pattern}
	return certificate.Generate(records, r, naming, certificate.GenerateOptions{
		ContinueOnError: f.keepGoing,
		DebugDir:        f.debug,
		Logger:          logger,
	})
}

func loadJob(f flags) (*config.Job, error) {
	job := &config.Job{Pattern: config.DefaultPattern}
	if f.job != "" {
		loaded, err := config.LoadJob(f.job)
		if err != nil {
			return nil, err
		}
		job = loaded
	}
	if f.data != "" {
		job.DataPath = f.data
	}
	if f.template != "" {
		job.Render.TemplatePath = f.template
	}
	if f.font != "" {
		job.Render.FontPath = f.font
	}
	if f.out != "" {
		job.OutputDir = f.out
	}
	if f.pattern != "" {
		job.Pattern = f.pattern
	}
	if job.OutputDir == "" {
		job.OutputDir = "."
	}
	return job, nil
}

func defaultColumns(headers []string) []config.Column {
	seen := make(map[string]bool, len(headers))
	var cols []config.Column
	for _, h := range headers {
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		cols = append(cols, config.Column{Name: h, Include: true, Spacing: config.DefaultColumnSpacing})
	}
	if len(cols) == 0 {
		return nil
	}
	return cols
}
