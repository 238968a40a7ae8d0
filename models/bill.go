package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill 待支付账单
type Bill struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index:idx_bill_user_due,priority:1"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	DueDate     time.Time       `json:"due_date" gorm:"type:date;not null;index:idx_bill_user_due,priority:2"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	User        User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Bill) TableName() string {
	return "bills"
}
