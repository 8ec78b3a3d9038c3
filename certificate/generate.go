package certificate

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ByLCY/certify/failure"
	"github.com/ByLCY/certify/layout"
	"github.com/ByLCY/certify/table"
)

// GenerateOptions 控制批量生成。
type GenerateOptions struct {
	// ContinueOnError 为 true 时记录失败后继续处理后续记录，最后合并返回错误。
	ContinueOnError bool
	// DebugDir 非空时为每条记录写出 layout_<index>.json。
	DebugDir string
	Logger   *zap.Logger
}

// Summary 汇总一次批量生成。
type Summary struct {
	RunID   string
	Outputs []*Output
	Failed  int
}

// Generate 依次为每条记录调用 Render，记录序号从 1 开始。
// 默认遇到第一个错误即停止；已写出的证书不受影响。
// 两条记录展开出同一输出路径时，后一条按失败处理而不会覆盖前一条。
func Generate(records []table.Record, r *Renderer, naming Naming, opts GenerateOptions) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	summary := &Summary{RunID: uuid.New().String()}
	logger = logger.With(zap.String("run", summary.RunID))
	logger.Info("开始生成证书", zap.Int("records", len(records)), zap.String("dir", naming.Dir))

	var errs []error
	claimed := make(map[string]int, len(records))
	for i, rec := range records {
		index := i + 1
		out, err := generateOne(index, rec, r, naming, claimed, opts.DebugDir)
		if err != nil {
			summary.Failed++
			logger.Error("证书生成失败", zap.Int("index", index), zap.Error(err))
			if !opts.ContinueOnError {
				return summary, err
			}
			errs = append(errs, err)
			continue
		}
		summary.Outputs = append(summary.Outputs, out)
		logger.Info("已生成证书",
			zap.Int("index", index),
			zap.String("output", out.Path),
			zap.Int("dropped", out.Dropped))
	}

	logger.Info("证书生成结束", zap.Int("written", len(summary.Outputs)), zap.Int("failed", summary.Failed))
	return summary, errors.Join(errs...)
}

// claimed 记录已分配的输出路径，避免后面的记录覆盖前面的证书。
func generateOne(index int, rec table.Record, r *Renderer, naming Naming, claimed map[string]int, debugDir string) (*Output, error) {
	path, err := naming.Path(index, rec)
	if err != nil {
		return nil, failure.Render(index, err)
	}
	key := filepath.Clean(path)
	if prev, dup := claimed[key]; dup {
		return nil, failure.Render(index, failure.Config(path, fmt.Sprintf("输出文件与记录 #%d 重名", prev), nil))
	}
	claimed[key] = index

	out, err := r.Render(index, rec, path)
	if err != nil {
		return nil, err
	}
	if debugDir != "" {
		if _, err := layout.WriteDebugJSON(out.Layout, debugDir, index); err != nil {
			return nil, failure.Render(index, fmt.Errorf("输出调试 JSON 失败: %w", err))
		}
	}
	return out, nil
}
