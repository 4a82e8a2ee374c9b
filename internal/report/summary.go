package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"codegate/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode 控制汇总行是否着色。
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode 解析 --color 参数。
func ParseColorMode(value string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("unsupported color mode %q, allowed values: auto, always, never", value)
	}
}

// Enabled 根据模式与输出目标判断是否着色。
func (m ColorMode) Enabled(writer io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return IsTTY(writer)
	}
}

// IsTTY 判断 writer 是否为交互式终端。重定向到文件或管道时返回 false。
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// PrintSummary 输出一行扫描汇总，例如 "methods: 12 files, 2 violations, 0 errors"。
func PrintSummary(writer io.Writer, check string, summary model.Summary, color bool) error {
	files := fmt.Sprintf("%d files", summary.Files)
	violations := fmt.Sprintf("%d violations", summary.Violations)
	errorsText := fmt.Sprintf("%d errors", summary.Errors)

	if color {
		renderer := lipgloss.NewRenderer(writer)
		renderer.SetColorProfile(termenv.ANSI256)

		labelStyle := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
		okStyle := renderer.NewStyle().Foreground(lipgloss.Color("10"))
		badStyle := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		mutedStyle := renderer.NewStyle().Foreground(lipgloss.Color("8"))

		check = labelStyle.Render(check)
		files = mutedStyle.Render(files)
		if summary.Violations > 0 {
			violations = badStyle.Render(violations)
		} else {
			violations = okStyle.Render(violations)
		}
		if summary.Errors > 0 {
			errorsText = badStyle.Render(errorsText)
		} else {
			errorsText = mutedStyle.Render(errorsText)
		}
	}

	_, err := fmt.Fprintf(writer, "%s: %s, %s, %s\n", check, files, violations, errorsText)
	return err
}
