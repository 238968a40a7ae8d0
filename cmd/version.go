package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version 版本号，构建时可通过 -ldflags 覆盖
var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("spendwatch v%s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
