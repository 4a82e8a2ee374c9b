// Package testrunner 包装外部测试命令。
// 子进程的标准输出与标准错误全部丢弃，只根据退出码输出固定提示语。
package testrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// SuccessMessage 在命令退出码为 0 时输出。
	SuccessMessage = "Success! May the stars shine upon your fortunes."
	// FailureMessage 在命令退出码非 0 时输出。
	FailureMessage = "Alas! The Dark Lord is watching"
)

// DefaultCommand 是未指定命令时运行的测试命令。
var DefaultCommand = []string{"dotnet", "test"}

// DefaultBanner 是运行默认命令前输出的提示语。
const DefaultBanner = "Running dotnet tests..."

// ErrEmptyCommand 表示命令为空。
var ErrEmptyCommand = errors.New("test command is empty")

// Runner 执行测试命令并输出结果。
type Runner struct {
	writer io.Writer
	logger logrus.FieldLogger
}

// NewRunner 创建 Runner，结果写入 writer。
func NewRunner(writer io.Writer, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Runner{writer: writer, logger: logger}
}

// Banner 返回运行 command 前输出的提示语。
// 默认命令使用固定的 DefaultBanner，自定义命令显示完整命令行。
func Banner(command []string) string {
	if slices.Equal(command, DefaultCommand) {
		return DefaultBanner
	}
	return fmt.Sprintf("Running %s...", strings.Join(command, " "))
}

// Run 执行命令并返回子进程退出码。
// 命令能启动就不算错误，非 0 退出码只影响提示语；命令无法启动时返回错误。
func (r *Runner) Run(ctx context.Context, command []string) (int, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return 0, ErrEmptyCommand
	}

	display := strings.Join(command, " ")
	if _, err := fmt.Fprintln(r.writer, Banner(command)); err != nil {
		return 0, err
	}

	process := exec.CommandContext(ctx, command[0], command[1:]...)
	// Stdout 与 Stderr 为 nil 时子进程输出会被重定向到空设备。
	process.Stdout = nil
	process.Stderr = nil

	r.logger.WithField("command", display).Debug("test command started")

	exitCode := 0
	if err := process.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, fmt.Errorf("run %s: %w", command[0], err)
		}
		exitCode = exitErr.ExitCode()
	}

	r.logger.WithFields(logrus.Fields{
		"command":   display,
		"exit_code": exitCode,
	}).Debug("test command finished")

	message := SuccessMessage
	if exitCode != 0 {
		message = FailureMessage
	}
	if _, err := fmt.Fprintf(r.writer, "%s\n%d\n", message, exitCode); err != nil {
		return exitCode, err
	}

	return exitCode, nil
}
