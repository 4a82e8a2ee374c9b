package cmd

import (
	"errors"

	"codegate/internal/detect"
	"codegate/internal/languages"
	"codegate/internal/scanner"

	"github.com/spf13/cobra"
)

// defaultMethodsPath 是未传路径时 methods 命令扫描的目录。
const defaultMethodsPath = "./src"

// methodsOptions 存放 methods 命令的可配置参数。
type methodsOptions struct {
	scanOptions
	threshold    int
	languages    []string
	attribution  string
	maskLiterals bool
}

// newMethodsCmd 创建 methods 子命令。
// 示例：
//
//	codegate methods
//	codegate methods ./src --threshold 60 --format json --output methods.json
//	codegate methods . --lang csharp,go --attribution nesting
func newMethodsCmd(root *rootOptions, registry *languages.Registry) *cobra.Command {
	options := methodsOptions{
		scanOptions: defaultScanOptions(),
		threshold:   detect.DefaultThreshold,
		languages:   []string{"csharp"},
		attribution: string(detect.AttributionSequential),
	}

	methodsCmd := &cobra.Command{
		Use:   "methods [path]",
		Short: "查找方法体行数超过阈值的方法",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := options.validate()
			if err != nil {
				return err
			}

			if options.threshold <= 0 {
				return errors.New("threshold must be greater than 0")
			}

			attribution, err := detect.ParseAttribution(options.attribution)
			if err != nil {
				return err
			}

			selected, err := registry.Select(options.languages)
			if err != nil {
				return err
			}
			if len(selected.Languages()) == 0 {
				return errors.New("at least one language is required")
			}

			target := defaultMethodsPath
			if len(args) > 0 {
				target = args[0]
			}

			checker := scanner.NewMethodChecker(selected, scanner.MethodOptions{
				Threshold:    options.threshold,
				Attribution:  attribution,
				MaskLiterals: options.maskLiterals,
				ExcludeDirs:  options.excludeDirs,
			})
			return runScan(cmd, root, options.scanOptions, format, checker, target)
		},
	}

	options.addFlags(methodsCmd)
	methodsCmd.Flags().IntVar(&options.threshold, "threshold", options.threshold, "方法体允许的最大行数")
	methodsCmd.Flags().StringSliceVar(&options.languages, "lang", options.languages, "参与检查的语言，运行 codegate language 查看列表")
	methodsCmd.Flags().StringVar(&options.attribution, "attribution", options.attribution, "类型归属策略: sequential 或 nesting")
	methodsCmd.Flags().BoolVar(&options.maskLiterals, "mask-literals", options.maskLiterals, "匹配括号前先遮蔽注释与字符串字面量")

	return methodsCmd
}
