package cmd

import (
	"fmt"

	"codegate/internal/testrunner"

	"github.com/spf13/cobra"
)

// newTestCmd 创建 test 子命令。
// 示例：
//
//	codegate test
//	codegate test -- go test ./...
func newTestCmd(root *rootOptions) *cobra.Command {
	var failOnError bool

	testCmd := &cobra.Command{
		Use:   "test [-- command args...]",
		Short: "运行测试命令，只报告成功或失败以及退出码",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := args
			if len(command) == 0 {
				command = testrunner.DefaultCommand
			}

			runner := testrunner.NewRunner(cmd.OutOrStdout(), root.logger)
			exitCode, err := runner.Run(cmd.Context(), command)
			if err != nil {
				return err
			}

			if failOnError && exitCode != 0 {
				return fmt.Errorf("test command exited with code %d", exitCode)
			}
			return nil
		},
	}

	testCmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "测试命令失败时以非 0 状态退出")

	return testCmd
}
