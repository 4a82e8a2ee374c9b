package cmd

import (
	"strings"

	"codegate/internal/languages"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示 methods 支持的语言标识以及对应文件后缀。
func newLanguageCmd(registry *languages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示已实现语言及后缀",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Language", "Extensions"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetAutoWrapText(false)

			for _, item := range registry.Languages() {
				table.Append([]string{item.ID, item.Name, strings.Join(item.Extensions, ", ")})
			}

			table.Render()
			return nil
		},
	}
}
