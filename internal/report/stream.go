package report

import (
	"fmt"
	"io"

	"codegate/internal/model"
)

// TextSink 按文件流式输出纯文本结果，格式与历史脚本保持一致，便于 CI 日志 grep。
type TextSink struct {
	writer io.Writer
}

// NewTextSink 创建文本输出。
func NewTextSink(writer io.Writer) *TextSink {
	return &TextSink{writer: writer}
}

// Report 输出单个文件的全部结果。
func (s *TextSink) Report(report model.FileReport) error {
	if report.Error != nil {
		_, err := fmt.Fprintf(s.writer, "Error processing file: %s, Error: %s\n", report.Error.Path, report.Error.Error)
		return err
	}

	for _, item := range report.MethodViolations {
		if _, err := fmt.Fprintf(
			s.writer,
			"File: %s\nClass: %s\nMethod: %s\nLine Count: %d\n",
			item.File,
			item.Class,
			item.Method,
			item.LineCount,
		); err != nil {
			return err
		}
	}

	for _, item := range report.LineViolations {
		if _, err := fmt.Fprintf(s.writer, "%s:%d: %s\n", item.Path, item.Line, item.Text); err != nil {
			return err
		}
	}

	return nil
}

// Collector 把单文件结果收集为完整的 ScanResult，供 table/json/yaml 使用。
type Collector struct {
	result model.ScanResult
}

// NewCollector 创建结果收集器。
func NewCollector(scannedPath string, check string) *Collector {
	return &Collector{result: model.ScanResult{
		ScannedPath: scannedPath,
		Check:       check,
		Errors:      []model.ScanError{},
	}}
}

// Report 合并单个文件结果。
func (c *Collector) Report(report model.FileReport) error {
	c.result.Append(report)
	return nil
}

// Result 返回当前已收集的完整结果。
func (c *Collector) Result() model.ScanResult {
	return c.result
}
