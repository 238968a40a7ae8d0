package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"spendwatch/database"
	"spendwatch/service"

	"github.com/spf13/cobra"
)

var (
	flagConcurrency int
	flagRemindDate  string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "为所有设置了邮箱的用户发送账单到期提醒",
	Long:  "扫描每个用户在提醒窗口内到期的账单并发送汇总邮件，适合由 cron 定时执行。",
	RunE:  runRemind,
}

func init() {
	remindCmd.Flags().IntVar(&flagConcurrency, "concurrency", 4, "并发处理的用户数")
	remindCmd.Flags().StringVar(&flagRemindDate, "date", "", "以指定日期为今天 (2006-01-02)，默认当前日期")
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loc := cfg.Budget.Location
	today := time.Now().In(loc)
	if flagRemindDate != "" {
		today, err = time.ParseInLocation("2006-01-02", flagRemindDate, loc)
		if err != nil {
			return fmt.Errorf("日期格式错误: %w", err)
		}
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	store := database.NewStore(db)
	ctx := context.Background()
	users, err := store.ListUsersWithEmail(ctx)
	if err != nil {
		return fmt.Errorf("查询用户失败: %w", err)
	}

	dispatcher := service.NewDispatcher(service.NewEmailSender(&cfg.Email), store).WithBaseURL(cfg.Server.BaseURL)
	reminder := service.NewReminder(service.NewBillScanner(store), dispatcher, cfg.Budget.ReminderLookaheadDays)
	report := reminder.RemindAll(ctx, users, today, flagConcurrency)

	log.Printf("账单提醒完成: 用户 %d, 已发送 %d, 失败 %d (提前 %d 天)",
		report.Users, report.Sent, report.Failed, reminder.LookaheadDays())
	if report.Failed > 0 {
		return fmt.Errorf("%d 个用户提醒失败", report.Failed)
	}
	return nil
}
