package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"spendwatch/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "spendwatch",
	Short: "预算提醒记账系统",
	Long:  "记账、月度类别预算、账单到期提醒与邮件通知服务。",
	RunE:  runServe,
}

// Execute 命令行入口，由 main.go 调用
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "外部配置文件路径（可选）")
}

// loadConfig 各子命令共用的配置加载：先读取 .env，再加载配置文件与环境变量
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("警告: 读取 .env 失败: %v", err)
	}
	return config.LoadConfig(flagConfig)
}
