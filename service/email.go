package service

import (
	"context"
	"errors"
	"fmt"

	"spendwatch/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 SPENDWATCH_EMAIL_ENABLED=true")

// EmailSender 基于 SMTP 的邮件发送通道，实现 Sender
type EmailSender struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
}

// NewEmailSender 创建邮件发送通道，SMTP 拨号器随进程生命周期复用
func NewEmailSender(cfg *config.EmailConfig) *EmailSender {
	return &EmailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send 发送 HTML 邮件
func (s *EmailSender) Send(ctx context.Context, subject, body string, to []string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if len(to) == 0 {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// SendTestEmail 发送测试邮件
func (s *EmailSender) SendTestEmail(ctx context.Context, toEmail string) error {
	subject := "【记账系统】邮件配置测试"
	body := renderEmail("✅ 邮件配置成功", "#10b981", `<p>如果您收到这封邮件，说明邮件服务配置正确，预算提醒与账单提醒将通过此邮箱发送。</p>`)
	return s.Send(ctx, subject, body, []string{toEmail})
}
