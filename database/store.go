package database

import (
	"context"
	"errors"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store 预算引擎使用的 gorm 存储实现
type Store struct {
	db *gorm.DB
}

// NewStore 创建存储
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindBudget 查询预算，不存在时返回 (nil, nil)
func (s *Store) FindBudget(ctx context.Context, userID uint, categoryKey string, month, year int) (*models.Budget, error) {
	var b models.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND category_key = ? AND month = ? AND year = ?", userID, categoryKey, month, year).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBudgets 查询用户某月全部预算
func (s *Store) ListBudgets(ctx context.Context, userID uint, month, year int) ([]models.Budget, error) {
	var list []models.Budget
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("category ASC").
		Find(&list).Error
	return list, err
}

// SumSpending 汇总 [from, to) 内的交易金额
func (s *Store) SumSpending(ctx context.Context, userID uint, categoryKey string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_key = ? AND date >= ? AND date < ?", userID, categoryKey, from, to).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ListBillsDue 查询到期日在 [from, to) 内的账单
func (s *Store) ListBillsDue(ctx context.Context, userID uint, from, to time.Time) ([]models.Bill, error) {
	var list []models.Bill
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, from, to).
		Order("due_date ASC, id ASC").
		Find(&list).Error
	return list, err
}

// RecordNotification 保存通知发送记录
func (s *Store) RecordNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// ListUsersWithEmail 查询设置了邮箱的用户，用于批量提醒
func (s *Store) ListUsersWithEmail(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("email <> ''").Order("id ASC").Find(&users).Error
	return users, err
}
