package models

import (
	"time"
)

// Account представляет кассовый счет. Поле Balance изменяется только
// через LedgerService и всегда равно сумме знаковых сумм живых транзакций счета.
type Account struct {
	ID           uint          `gorm:"primaryKey;autoIncrement"`
	Name         string        `gorm:"column:name;not null;size:100"`
	Balance      int64         `gorm:"column:balance;not null;default:0"`
	Transactions []Transaction `gorm:"foreignKey:AccountID"`
	CreatedAt    time.Time     `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Account) TableName() string {
	return "accounts"
}
