package cmd

import (
	"errors"
	"fmt"
	"strings"

	"codegate/internal/report"
	"codegate/internal/scanner"

	"github.com/spf13/cobra"
)

// scanOptions 存放 methods 与 lines 共用的扫描参数。
type scanOptions struct {
	format          string
	output          string
	workers         int
	failOnViolation bool
	excludeDirs     []string
}

func defaultScanOptions() scanOptions {
	return scanOptions{
		format:  string(report.FormatText),
		workers: 1,
	}
}

// addFlags 在子命令上注册共用参数。
func (o *scanOptions) addFlags(command *cobra.Command) {
	command.Flags().StringVar(&o.format, "format", o.format, "输出格式: text, table, json, yaml")
	command.Flags().StringVar(&o.output, "output", o.output, "json/yaml 结果导出路径")
	command.Flags().IntVar(&o.workers, "workers", o.workers, "并发 worker 数量，1 表示顺序执行")
	command.Flags().BoolVar(&o.failOnViolation, "fail-on-violation", o.failOnViolation, "发现违规时以非 0 状态退出")
	command.Flags().StringSliceVar(&o.excludeDirs, "exclude-dir", o.excludeDirs, "额外排除的目录名，可重复指定")
}

// validate 校验共用参数并返回解析后的输出格式。
func (o *scanOptions) validate() (report.Format, error) {
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return "", err
	}

	if o.workers <= 0 {
		return "", errors.New("workers must be greater than 0")
	}

	if strings.TrimSpace(o.output) != "" && !format.Exportable() {
		return "", errors.New("output requires json or yaml format")
	}

	return format, nil
}

// runScan 执行一次扫描：text 格式逐文件输出，其余格式收集后统一输出。
// 汇总行写往 stderr，stdout 只保留检查结果。
func runScan(cmd *cobra.Command, root *rootOptions, options scanOptions, format report.Format, checker scanner.Checker, target string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	var sink scanner.Sink
	collector := report.NewCollector(target, checker.Name())
	if format.Streaming() {
		sink = report.NewTextSink(stdout)
	} else {
		sink = collector
	}

	service := scanner.NewService(
		checker,
		scanner.WithWorkers(options.workers),
		scanner.WithLogger(root.logger),
	)

	summary, err := service.ScanPath(cmd.Context(), target, sink)
	if err != nil {
		return err
	}

	if !format.Streaming() {
		result := collector.Result()
		if err := report.Print(stdout, format, result); err != nil {
			return err
		}

		if outputPath := strings.TrimSpace(options.output); outputPath != "" {
			if err := report.WriteFile(outputPath, format, result); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stderr, "%s exported to %s\n", strings.ToUpper(string(format)), outputPath)
		}
	}

	if err := report.PrintSummary(stderr, checker.Name(), summary, root.colorMode.Enabled(stderr)); err != nil {
		return err
	}

	if options.failOnViolation && summary.Violations > 0 {
		return ErrViolationsFound
	}
	return nil
}
