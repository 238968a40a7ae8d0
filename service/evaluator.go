package service

import (
	"context"
	"fmt"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
)

// Action 预算评估结果
type Action int

const (
	NoAction Action = iota
	Approaching
	Exceeded
)

func (a Action) String() string {
	switch a {
	case Approaching:
		return "approaching"
	case Exceeded:
		return "exceeded"
	default:
		return "none"
	}
}

// MarshalText 以字符串形式输出到 JSON
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Decision 一次评估的完整上下文，用于生成通知内容
type Decision struct {
	Action     Action          `json:"action"`
	Budget     *models.Budget  `json:"budget,omitempty"`
	Category   string          `json:"category"`
	Incoming   decimal.Decimal `json:"incoming"`
	Spending   decimal.Decimal `json:"spending"`
	Percentage int64           `json:"percentage"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// Evaluator 预算评估器
//
// 调用约定：交易必须先落库再评估。汇总结果已包含刚保存的交易，
// incoming 仅用于通知内容展示，不会再次累加。
type Evaluator struct {
	store      Store
	aggregator *Aggregator
	now        func() time.Time
	loc        *time.Location
}

// NewEvaluator 创建预算评估器，now 为 nil 时使用系统时钟
func NewEvaluator(store Store, now func() time.Time, loc *time.Location) *Evaluator {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{
		store:      store,
		aggregator: NewAggregator(store),
		now:        now,
		loc:        loc,
	}
}

// Now 评估器使用的当前时间
func (e *Evaluator) Now() time.Time {
	return e.now().In(e.loc)
}

// Evaluate 按当前自然月（而非交易日期）评估类别预算
func (e *Evaluator) Evaluate(ctx context.Context, userID uint, category string, incoming decimal.Decimal) (Decision, error) {
	decision := Decision{Action: NoAction, Category: category, Incoming: incoming}

	now := e.Now()
	budget, err := e.store.FindBudget(ctx, userID, models.NormalizeCategory(category), int(now.Month()), now.Year())
	if err != nil {
		return decision, fmt.Errorf("查询预算失败: %w", err)
	}
	if budget == nil {
		return decision, nil
	}

	spending, err := e.aggregator.SumSpending(ctx, userID, category, CurrentPeriod(now))
	if err != nil {
		return decision, err
	}

	decision.Budget = budget
	decision.Spending = spending
	decision.Percentage = percentOf(spending, budget.Amount)
	decision.Remaining = budget.Amount.Sub(spending)
	decision.Action = classify(spending, *budget)
	return decision, nil
}

// classify 花费超过预算为 Exceeded，恰好等于预算金额也归为 Exceeded；
// 达到提醒阈值但未到预算金额为 Approaching
func classify(spending decimal.Decimal, budget models.Budget) Action {
	if spending.GreaterThan(budget.Amount) {
		return Exceeded
	}
	// 预算为 0 且未花费时阈值也为 0，不视为接近预算
	if !budget.Amount.IsPositive() {
		return NoAction
	}
	if spending.Equal(budget.Amount) {
		return Exceeded
	}
	if spending.GreaterThanOrEqual(budget.Threshold()) {
		return Approaching
	}
	return NoAction
}

// percentOf 返回 round(100 * part / whole)，whole 为 0 时返回 0
func percentOf(part, whole decimal.Decimal) int64 {
	if whole.IsZero() {
		return 0
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(0).IntPart()
}
