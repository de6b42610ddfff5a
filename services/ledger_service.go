package services

import (
	"pettycash/models"

	"gorm.io/gorm"
)

// LedgerService — единственный компонент, изменяющий баланс счета.
// Баланс изменяется атомарным инкрементом на уровне хранилища
// (balance = balance + delta), поэтому параллельные операции над одним
// счетом не теряют обновления.
type LedgerService struct{}

// NewLedgerService создает новый экземпляр LedgerService
func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// SignedAmount возвращает знаковую сумму транзакции:
// +amount для income, -amount для expense
func (s *LedgerService) SignedAmount(amount int64, txType string) (int64, error) {
	switch models.TransactionType(txType) {
	case models.TransactionTypeIncome:
		return amount, nil
	case models.TransactionTypeExpense:
		return -amount, nil
	default:
		return 0, NewInvalidTypeError(txType)
	}
}

// ApplyEffect применяет эффект транзакции к балансу счета.
// Используется при создании и как вторая половина обновления.
func (s *LedgerService) ApplyEffect(tx *gorm.DB, accountID uint, amount int64, txType string) error {
	delta, err := s.SignedAmount(amount, txType)
	if err != nil {
		return err
	}
	return s.adjustBalance(tx, accountID, delta)
}

// RevertEffect снимает эффект транзакции с баланса счета.
// Используется при удалении и как первая половина обновления.
func (s *LedgerService) RevertEffect(tx *gorm.DB, accountID uint, amount int64, txType string) error {
	delta, err := s.SignedAmount(amount, txType)
	if err != nil {
		return err
	}
	return s.adjustBalance(tx, accountID, -delta)
}

// adjustBalance выполняет атомарный инкремент баланса одним UPDATE.
// Выполняется внутри переданной транзакции базы данных, поэтому при
// откате обновления и записи отменяются вместе.
func (s *LedgerService) adjustBalance(tx *gorm.DB, accountID uint, delta int64) error {
	result := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return NewStorageError("обновление баланса счета", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("account", accountID)
	}
	return nil
}
