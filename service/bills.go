package service

import (
	"context"
	"fmt"
	"time"

	"spendwatch/models"
)

// DefaultReminderLookaheadDays 账单提醒默认提前天数
const DefaultReminderLookaheadDays = 7

// BillScanner 查找即将到期的账单
type BillScanner struct {
	store Store
}

// NewBillScanner 创建账单扫描器
func NewBillScanner(store Store) *BillScanner {
	return &BillScanner{store: store}
}

// DueSoon 返回到期日在 [today, today+lookaheadDays] 的账单，两端都包含
func (s *BillScanner) DueSoon(ctx context.Context, userID uint, today time.Time, lookaheadDays int) ([]models.Bill, error) {
	if lookaheadDays < 0 {
		lookaheadDays = 0
	}
	from := startOfDay(today)
	to := from.AddDate(0, 0, lookaheadDays+1)

	bills, err := s.store.ListBillsDue(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("查询账单失败: %w", err)
	}
	if bills == nil {
		bills = []models.Bill{}
	}
	return bills, nil
}
