package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction 收支记录，金额带符号并按原值保存，预算花费直接累加原值
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index:idx_tx_user_cat_date,priority:1;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Category    string          `json:"category" gorm:"size:100;not null"`
	CategoryKey string          `json:"-" gorm:"size:100;not null;index:idx_tx_user_cat_date,priority:2"`
	Date        time.Time       `json:"date" gorm:"type:date;not null;index:idx_tx_user_cat_date,priority:3"`
	Description string          `json:"description" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
	User        User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeSave 写入前同步归一化类别键
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.CategoryKey = NormalizeCategory(t.Category)
	return nil
}
