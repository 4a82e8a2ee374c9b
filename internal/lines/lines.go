// Package lines 实现超长行检测。
package lines

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"codegate/internal/model"
)

// DefaultMaxLength 是单行允许的最大字符数。
const DefaultMaxLength = 120

// Scanner 逐行检查字符数。
// 长度按 Unicode 码点计算，不含行尾换行符；无法解码的字节直接丢弃。
type Scanner struct {
	maxLength int
}

// NewScanner 创建超长行扫描器，maxLength 小于等于 0 时使用默认值。
func NewScanner(maxLength int) *Scanner {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Scanner{maxLength: maxLength}
}

// MaxLength 返回当前阈值。
func (s *Scanner) MaxLength() int {
	return s.maxLength
}

// Analyze 流式读取 reader，返回所有超过阈值的行。
// 恰好等于阈值的行视为合规。
func (s *Scanner) Analyze(path string, reader io.Reader) ([]model.LineViolation, error) {
	var violations []model.LineViolation

	// 按行流式读取，不会把整个文件一次性载入内存。
	bufferedReader := bufio.NewReader(reader)
	lineNumber := 0

	for {
		line, err := bufferedReader.ReadString('\n')
		// EOF 且无文本时表示读取结束。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		// 任何非 EOF 读取异常都应立即失败。
		if err != nil && !errors.Is(err, io.EOF) {
			return violations, err
		}

		lineNumber++
		currentLine := strings.ToValidUTF8(normalizeLine(line), "")
		if length := utf8.RuneCountInString(currentLine); length > s.maxLength {
			violations = append(violations, model.LineViolation{
				Path:   path,
				Line:   lineNumber,
				Length: length,
				Text:   strings.TrimSpace(currentLine),
			})
		}

		// 最后一行没有换行符时，处理完即退出。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return violations, nil
}

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}
