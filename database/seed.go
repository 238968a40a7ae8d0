package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword 新建演示用户的默认密码
const SeedPassword = "testpassword123"

// seedCategory 演示数据的类别与单笔金额区间
type seedCategory struct {
	name         string
	min, max     float64
	descriptions []string
}

var seedCategories = []seedCategory{
	{"Food", 5, 30, []string{"Lunch", "Dinner", "Breakfast", "Coffee", "Snacks"}},
	{"Groceries", 20, 100, []string{"Supermarket", "Farmers Market", "Bakery"}},
	{"Dining", 15, 80, []string{"Restaurant", "Takeout", "Cafe"}},
	{"Transportation", 10, 50, []string{"Gas", "Bus Fare", "Taxi", "Train Ticket"}},
	{"Entertainment", 15, 60, []string{"Movies", "Concert", "Streaming Service"}},
	{"Housing", 500, 1200, []string{"Rent", "Home Repairs", "Furniture"}},
	{"Utilities", 30, 150, []string{"Electricity", "Water", "Internet", "Phone"}},
	{"Shopping", 20, 200, []string{"Clothes", "Electronics", "Gifts"}},
	{"Health", 15, 100, []string{"Pharmacy", "Doctor Visit", "Gym"}},
	{"Travel", 50, 500, []string{"Flight", "Hotel", "Tour"}},
}

// SeedOptions 演示数据参数
type SeedOptions struct {
	Username string
	Count    int
	Months   int
	Now      time.Time
	Rand     *rand.Rand
}

// SeedResult 演示数据生成结果
type SeedResult struct {
	User        models.User
	UserCreated bool
	Created     int
}

// GenerateTransactions 生成最近 months 个月内的随机消费记录
// 每个月有独立的波动系数，月初月末有概率额外多一笔
func GenerateTransactions(userID uint, count, months int, now time.Time, rng *rand.Rand) []models.Transaction {
	if count <= 0 {
		return nil
	}
	if months <= 0 {
		months = 1
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -30*months)
	spanDays := int(end.Sub(start).Hours()/24) + 1

	multipliers := make([]float64, months+2)
	for i := range multipliers {
		multipliers[i] = 0.7 + rng.Float64()*0.6
	}

	build := func(date time.Time, monthOffset int) models.Transaction {
		cat := seedCategories[rng.IntN(len(seedCategories))]
		m := 1.0
		if monthOffset >= 0 && monthOffset < len(multipliers) {
			m = multipliers[monthOffset]
		}
		amount := decimal.NewFromFloat((cat.min + rng.Float64()*(cat.max-cat.min)) * m).Round(2)
		if !amount.IsPositive() {
			amount = decimal.NewFromInt(1)
		}
		desc := cat.descriptions[rng.IntN(len(cat.descriptions))]
		return models.Transaction{
			UserID:      userID,
			Amount:      amount,
			Category:    cat.name,
			Date:        date,
			Description: fmt.Sprintf("%s - %s", desc, cat.name),
		}
	}

	list := make([]models.Transaction, 0, count+count/4)
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, rng.IntN(spanDays))
		monthOffset := (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
		if (date.Day() < 5 || date.Day() > 25) && rng.Float64() < 0.6 {
			list = append(list, build(date, monthOffset))
		}
		list = append(list, build(date, monthOffset))
	}
	return list
}

// Seed 创建（或复用）演示用户，并用随机记录替换其全部收支记录
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) (SeedResult, error) {
	var result SeedResult
	if opts.Username == "" {
		return result, errors.New("用户名不能为空")
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(opts.Now.UnixNano()), 0))
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("username = ?", opts.Username).First(&result.User).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			result.User = models.User{
				Username: opts.Username,
				Password: string(hashed),
				Email:    opts.Username + "@example.com",
			}
			if err := tx.Create(&result.User).Error; err != nil {
				return fmt.Errorf("创建用户失败: %w", err)
			}
			result.UserCreated = true
		case err != nil:
			return err
		}

		if err := tx.Unscoped().Where("user_id = ?", result.User.ID).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("清理旧记录失败: %w", err)
		}

		list := GenerateTransactions(result.User.ID, opts.Count, opts.Months, opts.Now, opts.Rand)
		if len(list) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&list, 200).Error; err != nil {
			return fmt.Errorf("写入记录失败: %w", err)
		}
		result.Created = len(list)
		return nil
	})
	return result, err
}
