package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"spendwatch/models"

	"github.com/shopspring/decimal"
)

// NotificationKind 通知类型
type NotificationKind string

const (
	KindExceeded     NotificationKind = "budget_exceeded"
	KindApproaching  NotificationKind = "budget_approaching"
	KindBillReminder NotificationKind = "bill_reminder"
)

var (
	// ErrDispatch 通知发送失败，评估结果与已保存的交易不受影响
	ErrDispatch = errors.New("通知发送失败")
	// ErrNoRecipient 用户未设置邮箱
	ErrNoRecipient = errors.New("用户未设置邮箱")
	// ErrUnknownKind 未知通知类型
	ErrUnknownKind = errors.New("未知通知类型")
)

// NotificationContext 模板渲染所需数据
type NotificationContext struct {
	Category   string
	Incoming   decimal.Decimal
	Limit      decimal.Decimal
	Spending   decimal.Decimal
	Percentage int64
	Bills      []models.Bill
	LoginURL   string
}

// KindForAction 评估结果对应的通知类型，NoAction 返回空
func KindForAction(a Action) NotificationKind {
	switch a {
	case Exceeded:
		return KindExceeded
	case Approaching:
		return KindApproaching
	default:
		return ""
	}
}

// ContextFromDecision 从评估结果构造模板数据
func ContextFromDecision(d Decision) NotificationContext {
	nc := NotificationContext{
		Category:   d.Category,
		Incoming:   d.Incoming,
		Spending:   d.Spending,
		Percentage: d.Percentage,
	}
	if d.Budget != nil {
		nc.Limit = d.Budget.Amount
	}
	return nc
}

// Dispatcher 格式化并发送通知，收件人为用户本人邮箱
type Dispatcher struct {
	sender   Sender
	recorder Recorder
	baseURL  string
}

// NewDispatcher 创建通知分发器，recorder 可为 nil
func NewDispatcher(sender Sender, recorder Recorder) *Dispatcher {
	return &Dispatcher{sender: sender, recorder: recorder}
}

// WithBaseURL 设置邮件中登录链接的站点地址
func (d *Dispatcher) WithBaseURL(baseURL string) *Dispatcher {
	d.baseURL = baseURL
	return d
}

// Render 生成通知主题与正文
func Render(kind NotificationKind, username string, nc NotificationContext) (string, string, error) {
	switch kind {
	case KindExceeded:
		s, b := exceededEmail(username, nc)
		return s, b, nil
	case KindApproaching:
		s, b := approachingEmail(username, nc)
		return s, b, nil
	case KindBillReminder:
		s, b := billReminderEmail(username, nc)
		return s, b, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Send 发送一条通知
// 用户无邮箱时跳过并返回 false；发送失败返回包装了 ErrDispatch 的错误，不会吞掉
func (d *Dispatcher) Send(ctx context.Context, kind NotificationKind, user models.User, nc NotificationContext) (bool, error) {
	if nc.LoginURL == "" {
		nc.LoginURL = d.baseURL
	}
	subject, body, err := Render(kind, user.Username, nc)
	if err != nil {
		return false, err
	}

	record := &models.Notification{
		UserID:    user.ID,
		Kind:      string(kind),
		Subject:   subject,
		Recipient: user.Email,
	}

	if user.Email == "" {
		record.Status = models.NotificationStatusSkipped
		record.Error = ErrNoRecipient.Error()
		d.record(ctx, record)
		return false, nil
	}

	if err := d.sender.Send(ctx, subject, body, []string{user.Email}); err != nil {
		record.Status = models.NotificationStatusFailed
		record.Error = truncate(err.Error(), 500)
		d.record(ctx, record)
		return false, fmt.Errorf("%w: %s -> user %d: %w", ErrDispatch, kind, user.ID, err)
	}

	record.Status = models.NotificationStatusSent
	d.record(ctx, record)
	return true, nil
}

func (d *Dispatcher) record(ctx context.Context, n *models.Notification) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.RecordNotification(ctx, n); err != nil {
		log.Printf("记录通知失败: user=%d kind=%s err=%v", n.UserID, n.Kind, err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
