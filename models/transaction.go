package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// TransactionType представляет тип транзакции
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValidTransactionType проверяет, что тип транзакции поддерживается
func IsValidTransactionType(t string) bool {
	switch TransactionType(t) {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

type Transaction struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Date        time.Time `gorm:"column:date;not null"`
	Description string    `gorm:"column:description;not null;size:255"`
	Amount      int64     `gorm:"column:amount;not null"`
	Type        string    `gorm:"column:type;not null;size:20"` // income, expense
	UserID      uint      `gorm:"column:user_id;not null;index"`
	CategoryID  uint      `gorm:"column:category_id;not null;index"`
	AccountID   uint      `gorm:"column:account_id;not null;index"`
	User        User      `gorm:"foreignKey:UserID;references:ID"`
	Category    Category  `gorm:"foreignKey:CategoryID;references:ID"`
	Account     Account   `gorm:"foreignKey:AccountID;references:ID"`
	CreatedAt   time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// BeforeSave хук для валидации перед сохранением
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	if t.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !IsValidTransactionType(t.Type) {
		return errors.New("type must be income or expense")
	}
	return nil
}
