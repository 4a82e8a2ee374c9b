// Package cmd 提供 codegate 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"codegate/internal/languages"
	"codegate/internal/report"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrViolationsFound 在开启 --fail-on-violation 且发现违规时返回，使进程以非 0 退出。
var ErrViolationsFound = errors.New("violations found")

// rootOptions 存放全局参数，以及由全局参数派生出的日志与配色设置。
type rootOptions struct {
	logLevel string
	color    string

	logger    *logrus.Logger
	colorMode report.ColorMode
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
// 收到 SIGINT 时取消扫描上下文。
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	options := &rootOptions{
		logLevel: logrus.WarnLevel.String(),
		color:    string(report.ColorAuto),
	}

	rootCmd := &cobra.Command{
		Use:   "codegate",
		Short: "超长方法与超长行检查工具",
		Long: "codegate 是一个面向 pre-commit 与 CI 的代码质量门禁，\n" +
			"检查超过行数阈值的方法体和超过字符数上限的代码行，并可包装外部测试命令。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return options.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&options.logLevel, "log-level", options.logLevel, "日志级别: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&options.color, "color", options.color, "汇总行配色: auto, always, never")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newMethodsCmd(options, registry))
	rootCmd.AddCommand(newLinesCmd(options))
	rootCmd.AddCommand(newTestCmd(options))

	return rootCmd
}

// setup 解析全局参数并创建写往 stderr 的日志对象。日志从不写入 stdout。
func (o *rootOptions) setup(stderr io.Writer) error {
	level, err := logrus.ParseLevel(strings.TrimSpace(o.logLevel))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	colorMode, err := report.ParseColorMode(o.color)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !colorMode.Enabled(stderr),
		DisableTimestamp: true,
	})

	o.logger = logger
	o.colorMode = colorMode
	return nil
}
