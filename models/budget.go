package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultAlertPercentage 预算提醒默认阈值（百分比）
const DefaultAlertPercentage = 80

// Budget 月度类别预算，同一用户同一类别每个自然月至多一条
type Budget struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;uniqueIndex:uk_budget_user_cat_month,priority:1"`
	Category        string          `json:"category" gorm:"size:100;not null"`
	CategoryKey     string          `json:"-" gorm:"size:100;not null;uniqueIndex:uk_budget_user_cat_month,priority:2"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Month           int             `json:"month" gorm:"not null;uniqueIndex:uk_budget_user_cat_month,priority:3"`
	Year            int             `json:"year" gorm:"not null;uniqueIndex:uk_budget_user_cat_month,priority:4"`
	AlertPercentage int             `json:"alert_percentage" gorm:"not null;default:80"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	User            User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}

// BeforeSave 写入前同步归一化类别键
func (b *Budget) BeforeSave(tx *gorm.DB) error {
	b.CategoryKey = NormalizeCategory(b.Category)
	if b.AlertPercentage == 0 {
		b.AlertPercentage = DefaultAlertPercentage
	}
	return nil
}

// Threshold 触发“接近预算”提醒的金额
func (b Budget) Threshold() decimal.Decimal {
	return b.Amount.Mul(decimal.NewFromInt(int64(b.AlertPercentage))).Div(decimal.NewFromInt(100))
}
