package service

import (
	"context"
	"fmt"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
)

// 预算进度状态
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

// BudgetProgress 预算执行进度，每次请求实时计算，不落库
type BudgetProgress struct {
	Budget     models.Budget   `json:"budget"`
	Spending   decimal.Decimal `json:"spending"`
	Percentage int64           `json:"percentage"`
	Status     string          `json:"status"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// ProgressView 预算进度视图
type ProgressView struct {
	store      Store
	aggregator *Aggregator
	loc        *time.Location
}

// NewProgressView 创建预算进度视图
func NewProgressView(store Store, loc *time.Location) *ProgressView {
	if loc == nil {
		loc = time.Local
	}
	return &ProgressView{store: store, aggregator: NewAggregator(store), loc: loc}
}

// Progress 计算用户指定月份所有预算的执行进度
func (v *ProgressView) Progress(ctx context.Context, userID uint, month, year int) ([]BudgetProgress, error) {
	period := PeriodBounds(year, month, v.loc)
	budgets, err := v.store.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("查询预算失败: %w", err)
	}

	result := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		spending, err := v.aggregator.SumSpending(ctx, userID, b.Category, period)
		if err != nil {
			return nil, err
		}
		pct := percentOf(spending, b.Amount)
		result = append(result, BudgetProgress{
			Budget:     b,
			Spending:   spending,
			Percentage: pct,
			Status:     progressStatus(pct, b.AlertPercentage),
			Remaining:  b.Amount.Sub(spending),
		})
	}
	return result, nil
}

func progressStatus(percentage int64, alertPercentage int) string {
	switch {
	case percentage >= 100:
		return StatusDanger
	case percentage >= int64(alertPercentage):
		return StatusWarning
	default:
		return StatusOK
	}
}
