package service

import (
	"context"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
)

// Store 预算引擎依赖的持久化能力
// 类别参数均为 models.NormalizeCategory 之后的匹配键；时间区间均为左闭右开
type Store interface {
	// FindBudget 查询指定月份的类别预算，不存在时返回 (nil, nil)
	FindBudget(ctx context.Context, userID uint, categoryKey string, month, year int) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID uint, month, year int) ([]models.Budget, error)
	SumSpending(ctx context.Context, userID uint, categoryKey string, from, to time.Time) (decimal.Decimal, error)
	ListBillsDue(ctx context.Context, userID uint, from, to time.Time) ([]models.Bill, error)
}

// Sender 外部通知发送通道
type Sender interface {
	Send(ctx context.Context, subject, body string, to []string) error
}

// Recorder 通知发送记录
type Recorder interface {
	RecordNotification(ctx context.Context, n *models.Notification) error
}
