package cmd

import (
	"context"
	"log"

	"spendwatch/database"

	"github.com/spf13/cobra"
)

var (
	flagSeedUsername string
	flagSeedCount    int
	flagSeedMonths   int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "生成演示用的随机收支记录",
	Long:  "为指定用户（不存在则创建）生成最近若干个月的随机消费记录，会先清空该用户已有的收支记录。",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		result, err := database.Seed(context.Background(), db, database.SeedOptions{
			Username: flagSeedUsername,
			Count:    flagSeedCount,
			Months:   flagSeedMonths,
		})
		if err != nil {
			return err
		}

		if result.UserCreated {
			log.Printf("已创建用户: %s (密码: %s, 邮箱: %s)", result.User.Username, database.SeedPassword, result.User.Email)
		}
		log.Printf("已为 %s 生成 %d 条记录，覆盖最近 %d 个月", result.User.Username, result.Created, flagSeedMonths)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedUsername, "username", "testuser", "生成数据的用户名")
	seedCmd.Flags().IntVar(&flagSeedCount, "count", 200, "生成的记录数")
	seedCmd.Flags().IntVar(&flagSeedMonths, "months", 12, "覆盖的月份数")
	rootCmd.AddCommand(seedCmd)
}
