package cmd

import (
	"errors"

	"codegate/internal/lines"
	"codegate/internal/scanner"

	"github.com/spf13/cobra"
)

// linesOptions 存放 lines 命令的可配置参数。
type linesOptions struct {
	scanOptions
	maxLength    int
	excludeFiles []string
}

// newLinesCmd 创建 lines 子命令。
// 示例：
//
//	codegate lines
//	codegate lines ./src --max-length 100 --exclude-file .md
func newLinesCmd(root *rootOptions) *cobra.Command {
	options := linesOptions{
		scanOptions: defaultScanOptions(),
		maxLength:   lines.DefaultMaxLength,
	}

	linesCmd := &cobra.Command{
		Use:   "lines [path]",
		Short: "查找字符数超过上限的代码行",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := options.validate()
			if err != nil {
				return err
			}

			if options.maxLength <= 0 {
				return errors.New("max-length must be greater than 0")
			}

			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			checker := scanner.NewLineChecker(scanner.LineOptions{
				MaxLength:    options.maxLength,
				ExcludeDirs:  options.excludeDirs,
				ExcludeFiles: options.excludeFiles,
			})
			return runScan(cmd, root, options.scanOptions, format, checker, target)
		},
	}

	options.addFlags(linesCmd)
	linesCmd.Flags().IntVar(&options.maxLength, "max-length", options.maxLength, "单行允许的最大字符数")
	linesCmd.Flags().StringSliceVar(&options.excludeFiles, "exclude-file", options.excludeFiles, "额外排除的文件名或后缀（如 .md），可重复指定")

	return linesCmd
}
