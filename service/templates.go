package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

const emailLayout = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: %s; color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table.summary { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        table.summary td { padding: 10px; border-bottom: 1px solid #eee; color: #333; }
        table.summary td.value { text-align: right; font-weight: 600; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
        <div class="content">
%s
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 记账系统 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`

// renderEmail 套用统一邮件布局，content 需已转义
func renderEmail(title, headerColor, content string) string {
	return fmt.Sprintf(emailLayout, headerColor, html.EscapeString(title), content)
}

func money(d decimal.Decimal) string {
	return "¥" + d.StringFixed(2)
}

// loginLink 配置了站点地址时渲染为登录链接
func loginLink(baseURL string) string {
	if baseURL == "" {
		return "记账系统"
	}
	return fmt.Sprintf(`<a href="%s">记账系统</a>`, html.EscapeString(strings.TrimRight(baseURL, "/")+"/login"))
}

func summaryTable(rows [][2]string) string {
	var b strings.Builder
	b.WriteString(`<table class="summary">`)
	for _, r := range rows {
		fmt.Fprintf(&b, `<tr><td>%s</td><td class="value">%s</td></tr>`, html.EscapeString(r[0]), html.EscapeString(r[1]))
	}
	b.WriteString(`</table>`)
	return b.String()
}

// exceededEmail 超出预算提醒
func exceededEmail(username string, nc NotificationContext) (string, string) {
	subject := fmt.Sprintf("【记账系统】预算提醒：%s 类别已超出本月预算", nc.Category)
	content := fmt.Sprintf(`<p>尊敬的 <strong>%s</strong>，您好！</p>
<p>您最近一笔 <strong>%s</strong> 的 %s 类消费使本月该类别支出超出了预算。</p>
%s
<p>请登录%s查看消费明细，必要时调整预算。</p>`,
		html.EscapeString(username),
		html.EscapeString(money(nc.Incoming)),
		html.EscapeString(nc.Category),
		summaryTable([][2]string{
			{"本月预算", money(nc.Limit)},
			{"当前支出", money(nc.Spending)},
			{"超出金额", money(nc.Spending.Sub(nc.Limit))},
		}),
		loginLink(nc.LoginURL))
	return subject, renderEmail("⚠️ 预算已超支", "linear-gradient(135deg, #ef4444, #b91c1c)", content)
}

// approachingEmail 接近预算提醒
func approachingEmail(username string, nc NotificationContext) (string, string) {
	subject := fmt.Sprintf("【记账系统】预算提醒：%s 类别即将达到本月预算", nc.Category)
	content := fmt.Sprintf(`<p>尊敬的 <strong>%s</strong>，您好！</p>
<p>您最近一笔 <strong>%s</strong> 的 %s 类消费使本月该类别支出达到预算的 <strong>%d%%</strong>。</p>
%s
<p>请登录%s查看消费明细，合理安排剩余预算。</p>`,
		html.EscapeString(username),
		html.EscapeString(money(nc.Incoming)),
		html.EscapeString(nc.Category),
		nc.Percentage,
		summaryTable([][2]string{
			{"本月预算", money(nc.Limit)},
			{"当前支出", money(nc.Spending)},
			{"剩余预算", money(nc.Limit.Sub(nc.Spending))},
		}),
		loginLink(nc.LoginURL))
	return subject, renderEmail("🔔 预算即将用完", "linear-gradient(135deg, #f59e0b, #d97706)", content)
}

// billReminderEmail 账单到期提醒
func billReminderEmail(username string, nc NotificationContext) (string, string) {
	subject := fmt.Sprintf("【记账系统】账单提醒：%d 笔账单即将到期", len(nc.Bills))
	rows := make([][2]string, 0, len(nc.Bills))
	for _, b := range nc.Bills {
		rows = append(rows, [2]string{
			fmt.Sprintf("%s（%s 到期）", b.Name, b.DueDate.Format("2006-01-02")),
			money(b.Amount),
		})
	}
	content := fmt.Sprintf(`<p>尊敬的 <strong>%s</strong>，您好！</p>
<p>以下账单将在近期到期，请及时支付：</p>
%s
<p>请登录%s查看全部账单。</p>`, html.EscapeString(username), summaryTable(rows), loginLink(nc.LoginURL))
	return subject, renderEmail("📅 账单即将到期", "linear-gradient(135deg, #2563eb, #1d4ed8)", content)
}
