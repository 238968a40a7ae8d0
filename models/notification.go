package models

import "time"

// 通知发送状态
const (
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
	NotificationStatusSkipped = "skipped"
)

// Notification 通知发送记录，仅用于审计排查，不参与去重
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Kind      string    `json:"kind" gorm:"size:30;not null;index"`
	Subject   string    `json:"subject" gorm:"size:255"`
	Recipient string    `json:"recipient" gorm:"size:100"`
	Status    string    `json:"status" gorm:"size:20;not null"`
	Error     string    `json:"error,omitempty" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (Notification) TableName() string {
	return "notifications"
}
