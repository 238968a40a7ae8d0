package service

import (
	"context"
	"log"
	"sync"
	"time"

	"spendwatch/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BudgetAlerter 交易落库后的预算检查与提醒
type BudgetAlerter struct {
	evaluator  *Evaluator
	dispatcher *Dispatcher
}

// NewBudgetAlerter 创建预算提醒器
func NewBudgetAlerter(evaluator *Evaluator, dispatcher *Dispatcher) *BudgetAlerter {
	return &BudgetAlerter{evaluator: evaluator, dispatcher: dispatcher}
}

// CheckAndNotify 评估预算并按结果发送 0 或 1 条通知
// 不记录本月是否已提醒过：超出预算后同类别的每笔新交易都会再次提醒
func (a *BudgetAlerter) CheckAndNotify(ctx context.Context, user models.User, category string, amount decimal.Decimal) (Decision, bool, error) {
	decision, err := a.evaluator.Evaluate(ctx, user.ID, category, amount)
	if err != nil {
		return decision, false, err
	}

	kind := KindForAction(decision.Action)
	if kind == "" {
		return decision, false, nil
	}

	sent, err := a.dispatcher.Send(ctx, kind, user, ContextFromDecision(decision))
	return decision, sent, err
}

// Reminder 账单到期提醒
type Reminder struct {
	scanner    *BillScanner
	dispatcher *Dispatcher
	lookahead  int
}

// NewReminder 创建账单提醒器
func NewReminder(scanner *BillScanner, dispatcher *Dispatcher, lookaheadDays int) *Reminder {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultReminderLookaheadDays
	}
	return &Reminder{scanner: scanner, dispatcher: dispatcher, lookahead: lookaheadDays}
}

// LookaheadDays 提前提醒天数
func (r *Reminder) LookaheadDays() int {
	return r.lookahead
}

// RemindUser 扫描即将到期账单，有账单时发送一封汇总提醒
func (r *Reminder) RemindUser(ctx context.Context, user models.User, today time.Time) ([]models.Bill, bool, error) {
	bills, err := r.scanner.DueSoon(ctx, user.ID, today, r.lookahead)
	if err != nil {
		return nil, false, err
	}
	if len(bills) == 0 {
		return bills, false, nil
	}
	sent, err := r.dispatcher.Send(ctx, KindBillReminder, user, NotificationContext{Bills: bills})
	return bills, sent, err
}

// ReminderReport 批量提醒统计
type ReminderReport struct {
	Users  int `json:"users"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// RemindAll 并发为多个用户发送账单提醒，单个用户失败只记录日志
func (r *Reminder) RemindAll(ctx context.Context, users []models.User, today time.Time, concurrency int) ReminderReport {
	if concurrency <= 0 {
		concurrency = 4
	}
	var (
		mu     sync.Mutex
		report = ReminderReport{Users: len(users)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, u := range users {
		g.Go(func() error {
			_, sent, err := r.RemindUser(gctx, u, today)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				log.Printf("账单提醒失败: user=%d err=%v", u.ID, err)
				return nil
			}
			if sent {
				report.Sent++
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}
