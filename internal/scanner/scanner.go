// Package scanner 提供目录遍历与调度能力。
// 该层负责目录遍历、排除过滤、任务分发和结果按序输出，不负责具体检查规则。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"codegate/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyPath 表示未提供扫描路径。
var ErrEmptyPath = errors.New("scan path is empty")

// Checker 定义一类文件检查。
type Checker interface {
	// Name 返回检查名称（例如 methods、lines）。
	Name() string
	// SkipDir 判断是否跳过某个目录（只看目录名）。
	SkipDir(name string) bool
	// Accept 判断文件是否参与检查。
	Accept(path string) bool
	// Check 读取并检查单个文件。返回错误时该文件被记为 ScanError，扫描继续。
	Check(path string, reader io.Reader) (model.FileReport, error)
}

// Sink 按遍历顺序接收单文件结果。
// 返回错误会中止整个扫描。
type Sink interface {
	Report(report model.FileReport) error
}

// SinkFunc 把普通函数适配为 Sink。
type SinkFunc func(report model.FileReport) error

// Report 调用函数本身。
func (f SinkFunc) Report(report model.FileReport) error {
	return f(report)
}

// Service 是扫描服务对象。
type Service struct {
	checker Checker
	workers int
	logger  logrus.FieldLogger
}

// Option 用于定制 Service。
type Option func(*Service)

// WithWorkers 设置并发读取文件的 worker 数量，1 表示严格顺序执行。
func WithWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithLogger 设置诊断日志输出。
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// scanTask 表示一个待检查文件，或一个遍历阶段就已失败的路径。
type scanTask struct {
	absolutePath string
	displayPath  string
	err          error
}

// NewService 创建扫描服务，默认单 worker 顺序执行。
func NewService(checker Checker, options ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	service := &Service{
		checker: checker,
		workers: 1,
		logger:  discard,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// ScanPath 扫描目录或单文件，并把每个文件的结果按遍历顺序交给 sink。
// 单文件失败只会记录 ScanError；根路径不存在等错误直接返回。
func (s *Service) ScanPath(ctx context.Context, targetPath string, sink Sink) (model.Summary, error) {
	var summary model.Summary

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return summary, ErrEmptyPath
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return summary, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return summary, fmt.Errorf("stat path: %w", err)
	}

	if !info.IsDir() {
		if !s.checker.Accept(absoluteTarget) {
			return summary, fmt.Errorf("unsupported file for %s check: %s", s.checker.Name(), filepath.Base(absoluteTarget))
		}
		report := s.checkFile(ctx, scanTask{absolutePath: absoluteTarget, displayPath: trimmedPath})
		summary.Add(report)
		return summary, sink.Report(report)
	}

	s.logger.WithFields(logrus.Fields{
		"check":   s.checker.Name(),
		"path":    absoluteTarget,
		"workers": s.workers,
	}).Debug("scan started")

	if s.workers == 1 {
		return s.scanSequential(ctx, absoluteTarget, trimmedPath, sink)
	}
	return s.scanConcurrent(ctx, absoluteTarget, trimmedPath, sink)
}

// scanSequential 在遍历回调里直接完成读取、检查和输出，一个文件处理完才进入下一个。
func (s *Service) scanSequential(ctx context.Context, root string, displayRoot string, sink Sink) (model.Summary, error) {
	var summary model.Summary

	err := s.walk(ctx, root, displayRoot, func(task scanTask) error {
		report := s.checkFile(ctx, task)
		summary.Add(report)
		return sink.Report(report)
	})

	return summary, err
}

// scanConcurrent 并发检查文件，但仍严格按遍历顺序输出。
// 每个任务拥有一个容量为 1 的结果槽，槽按遍历顺序排队，输出端依次等待。
func (s *Service) scanConcurrent(ctx context.Context, root string, displayRoot string, sink Sink) (model.Summary, error) {
	var summary model.Summary

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workers errgroup.Group
	workers.SetLimit(s.workers)

	pending := make(chan chan model.FileReport, s.workers*4)
	walkErrChan := make(chan error, 1)

	go func() {
		defer close(pending)
		walkErrChan <- s.walk(ctx, root, displayRoot, func(task scanTask) error {
			slot := make(chan model.FileReport, 1)
			select {
			case pending <- slot:
			case <-ctx.Done():
				return ctx.Err()
			}

			// SetLimit 已满时 Go 会阻塞，遍历因此不会跑得比检查快太多。
			workers.Go(func() error {
				slot <- s.checkFile(ctx, task)
				return nil
			})
			return nil
		})
	}()

	var sinkErr error
	for slot := range pending {
		report := <-slot
		if sinkErr != nil {
			continue
		}

		summary.Add(report)
		if err := sink.Report(report); err != nil {
			sinkErr = err
			cancel()
		}
	}

	_ = workers.Wait()
	walkErr := <-walkErrChan

	if sinkErr != nil {
		return summary, sinkErr
	}
	return summary, walkErr
}

// walk 以字典序先序遍历目录，把可检查文件交给 visit。
// 子目录读取失败会变成该路径的失败任务，不会中断遍历。
func (s *Service) walk(ctx context.Context, root string, displayRoot string, visit func(scanTask) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return visit(scanTask{
				absolutePath: path,
				displayPath:  s.displayPath(root, displayRoot, path),
				err:          walkErr,
			})
		}

		if entry.IsDir() {
			if path != root && s.checker.SkipDir(entry.Name()) {
				s.logger.WithField("path", path).Debug("skip excluded directory")
				return filepath.SkipDir
			}
			return nil
		}

		// 指向目录的符号链接不展开，也不当作文件处理。
		if entry.Type()&fs.ModeSymlink != 0 {
			if target, statErr := os.Stat(path); statErr == nil && target.IsDir() {
				return nil
			}
		} else if !entry.Type().IsRegular() {
			return nil
		}

		if !s.checker.Accept(path) {
			return nil
		}

		return visit(scanTask{
			absolutePath: path,
			displayPath:  s.displayPath(root, displayRoot, path),
		})
	})
}

// displayPath 把绝对路径还原为“用户传入的根路径 + 相对路径”的形式。
// 根路径原样保留（例如 ./src 不会被清理成 src），只去掉末尾多余的分隔符。
func (s *Service) displayPath(root string, displayRoot string, path string) string {
	relativePath, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if relativePath == "." {
		return displayRoot
	}

	separator := string(filepath.Separator)
	prefix := displayRoot
	if prefix != separator {
		prefix = strings.TrimSuffix(prefix, separator)
	}
	if strings.HasSuffix(prefix, separator) {
		return prefix + relativePath
	}
	return prefix + separator + relativePath
}

// checkFile 执行真实的文件读取和检查。每个文件打开、读完、关闭后才返回。
func (s *Service) checkFile(ctx context.Context, task scanTask) model.FileReport {
	if task.err != nil {
		return s.failed(task, task.err)
	}
	if err := ctx.Err(); err != nil {
		return s.failed(task, err)
	}

	file, err := os.Open(task.absolutePath)
	if err != nil {
		return s.failed(task, err)
	}

	report, checkErr := s.checker.Check(task.displayPath, file)
	closeErr := file.Close()

	if checkErr != nil {
		return s.failed(task, checkErr)
	}
	if closeErr != nil {
		return s.failed(task, closeErr)
	}

	report.Path = task.displayPath
	return report
}

func (s *Service) failed(task scanTask, err error) model.FileReport {
	s.logger.WithFields(logrus.Fields{
		"path":  task.displayPath,
		"error": err,
	}).Warn("file skipped")

	return model.FileReport{
		Path: task.displayPath,
		Error: &model.ScanError{
			Path:  task.displayPath,
			Error: err.Error(),
		},
	}
}
