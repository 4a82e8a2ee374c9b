// Package report 提供 codegate 的输出能力。
// text 格式按文件流式输出；table、json、yaml 格式先收集完整结果再一次性输出，
// json 与 yaml 结果还可以导出到文件。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codegate/internal/model"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format 是输出格式。
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat 解析命令行传入的格式名称。
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatText:
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q, allowed values: text, table, json, yaml", value)
	}
}

// Streaming 表示该格式是否逐文件输出。
func (f Format) Streaming() bool {
	return f == FormatText
}

// Exportable 表示该格式是否支持 --output 导出。
func (f Format) Exportable() bool {
	return f == FormatJSON || f == FormatYAML
}

// PrintTable 使用表格展示扫描结果。
func PrintTable(writer io.Writer, result model.ScanResult) error {
	if _, err := fmt.Fprintf(writer, "SCANNED PATH  %s\n\n", result.ScannedPath); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	switch result.Check {
	case "lines":
		table.SetHeader([]string{"File", "Line", "Length"})
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
		for _, item := range result.LineViolations {
			table.Append([]string{item.Path, strconv.Itoa(item.Line), strconv.Itoa(item.Length)})
		}
		table.SetFooter([]string{
			fmt.Sprintf("Total Files %d", result.Summary.Files),
			"",
			strconv.Itoa(len(result.LineViolations)),
		})
	default:
		table.SetHeader([]string{"File", "Class", "Method", "Line", "Line Count"})
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
		})
		for _, item := range result.MethodViolations {
			lineCount := strconv.Itoa(item.LineCount)
			if item.Truncated {
				lineCount += "+"
			}
			table.Append([]string{item.Path, item.Class, item.Method, strconv.Itoa(item.Line), lineCount})
		}
		table.SetFooter([]string{
			fmt.Sprintf("Total Files %d", result.Summary.Files),
			"",
			"",
			"",
			strconv.Itoa(len(result.MethodViolations)),
		})
	}
	table.Render()

	if len(result.Errors) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(writer); err != nil {
		return err
	}
	errorTable := tablewriter.NewWriter(writer)
	errorTable.SetBorder(false)
	errorTable.SetCenterSeparator("")
	errorTable.SetAutoWrapText(false)
	errorTable.SetHeader([]string{"Error File", "Message"})
	for _, item := range result.Errors {
		errorTable.Append([]string{item.Path, item.Error})
	}
	errorTable.Render()

	return nil
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := marshal(FormatJSON, result)
	if err != nil {
		return err
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// PrintYAML 把扫描结果按 YAML 输出到任意 writer。
func PrintYAML(writer io.Writer, result model.ScanResult) error {
	content, err := marshal(FormatYAML, result)
	if err != nil {
		return err
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return nil
}

// Print 按格式输出缓冲结果。text 格式已经在扫描过程中流式输出，这里不做任何事。
func Print(writer io.Writer, format Format, result model.ScanResult) error {
	switch format {
	case FormatTable:
		return PrintTable(writer, result)
	case FormatJSON:
		return PrintJSON(writer, result)
	case FormatYAML:
		return PrintYAML(writer, result)
	case FormatText:
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile 将 JSON 或 YAML 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteFile(path string, format Format, result model.ScanResult) error {
	if !format.Exportable() {
		return fmt.Errorf("format %q cannot be exported to a file", format)
	}

	content, err := marshal(format, result)
	if err != nil {
		return err
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}

func marshal(format Format, result model.ScanResult) ([]byte, error) {
	if result.Errors == nil {
		result.Errors = []model.ScanError{}
	}

	switch format {
	case FormatYAML:
		content, err := yaml.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return content, nil
	default:
		content, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(content, '\n'), nil
	}
}
