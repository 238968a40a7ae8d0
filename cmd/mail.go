package cmd

import (
	"context"
	"log"
	"time"

	"spendwatch/service"

	"github.com/spf13/cobra"
)

var flagMailTo string

var mailTestCmd = &cobra.Command{
	Use:   "mail-test",
	Short: "发送一封测试邮件以检查 SMTP 配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := service.NewEmailSender(&cfg.Email).SendTestEmail(ctx, flagMailTo); err != nil {
			return err
		}
		log.Printf("测试邮件已发送至 %s", flagMailTo)
		return nil
	},
}

func init() {
	mailTestCmd.Flags().StringVar(&flagMailTo, "to", "", "收件人邮箱")
	_ = mailTestCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(mailTestCmd)
}
