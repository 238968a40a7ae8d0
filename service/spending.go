package service

import (
	"context"
	"fmt"

	"spendwatch/models"

	"github.com/shopspring/decimal"
)

// Aggregator 按用户、类别、月份汇总消费
type Aggregator struct {
	store Store
}

// NewAggregator 创建消费汇总器
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// SumSpending 汇总 period 内匹配类别的交易金额，无记录时返回 0
func (a *Aggregator) SumSpending(ctx context.Context, userID uint, category string, period Period) (decimal.Decimal, error) {
	total, err := a.store.SumSpending(ctx, userID, models.NormalizeCategory(category), period.Start, period.End)
	if err != nil {
		return decimal.Zero, fmt.Errorf("汇总消费失败: %w", err)
	}
	return total, nil
}
