package services

import (
	"errors"
	"time"

	"pettycash/models"
	"pettycash/utils"

	"gorm.io/gorm"
)

// BalanceMismatch представляет расхождение баланса счета с суммой транзакций
type BalanceMismatch struct {
	AccountID uint  `json:"account_id"`
	Stored    int64 `json:"stored"`
	Computed  int64 `json:"computed"`
}

// ReconciliationService периодически сверяет балансы счетов с суммой
// знаковых сумм их транзакций. Расхождения логируются и учитываются в
// метриках; исправление выполняется только явным вызовом Repair.
type ReconciliationService struct {
	db          *gorm.DB
	interval    time.Duration
	email       *EmailService
	notifyEmail string
	stop        chan struct{}
	done        chan struct{}
}

// NewReconciliationService создает новый экземпляр ReconciliationService
func NewReconciliationService(db *gorm.DB, interval time.Duration, email *EmailService, notifyEmail string) *ReconciliationService {
	return &ReconciliationService{
		db:          db,
		interval:    interval,
		email:       email,
		notifyEmail: notifyEmail,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start запускает периодическую сверку балансов
func (s *ReconciliationService) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		defer close(s.done)
		for {
			select {
			case <-ticker.C:
				if _, err := s.CheckBalances(); err != nil {
					utils.LogError("Ошибка при сверке балансов: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop останавливает периодическую сверку и дожидается завершения горутины
func (s *ReconciliationService) Stop() {
	close(s.stop)
	<-s.done
}

// computedBalance вычисляет баланс счета как сумму знаковых сумм его транзакций
func (s *ReconciliationService) computedBalance(accountID uint) (int64, error) {
	var computed int64
	err := s.db.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)").
		Scan(&computed).Error
	if err != nil {
		return 0, NewStorageError("подсчет суммы транзакций счета", err)
	}
	return computed, nil
}

// CheckBalances сверяет балансы всех счетов и возвращает найденные расхождения
func (s *ReconciliationService) CheckBalances() ([]BalanceMismatch, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return nil, NewStorageError("получение списка счетов", err)
	}

	var mismatches []BalanceMismatch
	for i := range accounts {
		account := &accounts[i]
		computed, err := s.computedBalance(account.ID)
		if err != nil {
			return nil, err
		}
		if computed != account.Balance {
			mismatch := BalanceMismatch{
				AccountID: account.ID,
				Stored:    account.Balance,
				Computed:  computed,
			}
			mismatches = append(mismatches, mismatch)
			utils.LogError("Расхождение баланса: %v", NewInconsistentError(account.ID, account.Balance, computed))
			utils.GetMetrics().RecordBalanceMismatch()

			// Уведомляем оператора, если настроен адрес
			if s.email != nil && s.notifyEmail != "" {
				if err := s.email.SendBalanceMismatchNotification(s.notifyEmail, account.ID, account.Balance, computed); err != nil {
					utils.LogError("Ошибка отправки уведомления о расхождении: %v", err)
				}
			}
		}
	}

	utils.GetMetrics().RecordReconciliation(len(accounts))
	return mismatches, nil
}

// Repair приводит хранимый баланс счета к вычисленной сумме транзакций.
// Явная операция восстановления: вызывается оператором, не автоматически.
func (s *ReconciliationService) Repair(accountID uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return NewStorageError("начало транзакции", tx.Error)
	}

	var account models.Account
	if err := tx.First(&account, accountID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("account", accountID)
		}
		return NewStorageError("поиск счета", err)
	}

	var computed int64
	err := tx.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)").
		Scan(&computed).Error
	if err != nil {
		tx.Rollback()
		return NewStorageError("подсчет суммы транзакций счета", err)
	}

	if computed == account.Balance {
		tx.Rollback()
		return nil
	}

	if err := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", computed).Error; err != nil {
		tx.Rollback()
		return NewStorageError("восстановление баланса счета", err)
	}

	if err := tx.Commit().Error; err != nil {
		return NewStorageError("подтверждение транзакции", err)
	}

	utils.LogInfo("Баланс счета %d восстановлен: %d -> %d", accountID, account.Balance, computed)
	return nil
}
