package services

import (
	"errors"
	"time"

	"pettycash/models"
	"pettycash/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// AccountDTO представляет кассовый счет
type AccountDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AccountRequest представляет данные для создания или обновления счета.
// Баланс намеренно отсутствует: он изменяется только через LedgerService.
type AccountRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// TotalBalanceDTO представляет суммарный баланс всех счетов
type TotalBalanceDTO struct {
	Total int64 `json:"total"`
}

// AccountService предоставляет методы для работы с кассовыми счетами
type AccountService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{
		db:        db,
		validator: validator.New(),
	}
}

func toAccountDTO(account *models.Account) AccountDTO {
	return AccountDTO{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   account.Balance,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}
}

// Create создает новый счет с нулевым балансом
func (s *AccountService) Create(request AccountRequest) (*AccountDTO, error) {
	// Валидируем запрос
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	account := &models.Account{
		Name: request.Name,
	}
	if err := s.db.Create(account).Error; err != nil {
		return nil, NewStorageError("создание счета", err)
	}

	utils.GetMetrics().RecordOperation("addAccount", nil)

	dto := toAccountDTO(account)
	return &dto, nil
}

// GetById возвращает счет по ID
func (s *AccountService) GetById(id uint) (*AccountDTO, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("account", id)
		}
		return nil, NewStorageError("поиск счета", err)
	}
	dto := toAccountDTO(&account)
	return &dto, nil
}

// GetAll возвращает все счета
func (s *AccountService) GetAll() ([]AccountDTO, error) {
	var accounts []models.Account
	if err := s.db.Order("id").Find(&accounts).Error; err != nil {
		return nil, NewStorageError("получение списка счетов", err)
	}

	dtos := make([]AccountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, toAccountDTO(&accounts[i]))
	}
	return dtos, nil
}

// Update обновляет название счета. Прямое редактирование баланса запрещено:
// баланс ведет исключительно LedgerService.
func (s *AccountService) Update(id uint, request AccountRequest) (*AccountDTO, error) {
	// Валидируем запрос
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("account", id)
		}
		return nil, NewStorageError("поиск счета", err)
	}

	account.Name = request.Name
	account.UpdatedAt = time.Now()
	if err := s.db.Model(&account).Select("name", "updated_at").Updates(&account).Error; err != nil {
		return nil, NewStorageError("обновление счета", err)
	}

	dto := toAccountDTO(&account)
	return &dto, nil
}

// Delete удаляет счет. Возвращает false без ошибки, если счет не найден.
// Счет с транзакциями удалить нельзя.
func (s *AccountService) Delete(id uint) (bool, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewStorageError("поиск счета", err)
	}

	// Проверяем, что на счет не ссылаются транзакции
	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("account_id = ?", id).Count(&count).Error; err != nil {
		return false, NewStorageError("проверка транзакций счета", err)
	}
	if count > 0 {
		return false, NewValidationError("нельзя удалить счет, на который ссылаются транзакции")
	}

	if err := s.db.Delete(&models.Account{}, id).Error; err != nil {
		return false, NewStorageError("удаление счета", err)
	}
	return true, nil
}

// GetTotalBalance возвращает суммарный баланс всех счетов
func (s *AccountService) GetTotalBalance() (*TotalBalanceDTO, error) {
	var total int64
	if err := s.db.Model(&models.Account{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error; err != nil {
		return nil, NewStorageError("подсчет суммарного баланса", err)
	}
	return &TotalBalanceDTO{Total: total}, nil
}
