package services

import (
	"errors"
	"time"

	"pettycash/models"
	"pettycash/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// TransactionDTO представляет транзакцию с подгруженными связанными сущностями
type TransactionDTO struct {
	ID          uint        `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      int64       `json:"amount"`
	Type        string      `json:"type"`
	User        UserDTO     `json:"user"`
	Category    CategoryDTO `json:"category"`
	Account     AccountDTO  `json:"account"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

// TransactionRequest представляет данные для создания или обновления транзакции
type TransactionRequest struct {
	Date        string `json:"date" validate:"omitempty"`
	Description string `json:"description" validate:"required,min=1,max=255"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required,oneof=income expense"`
	UserID      uint   `json:"user_id" validate:"required"`
	CategoryID  uint   `json:"category_id" validate:"required"`
	AccountID   uint   `json:"account_id" validate:"required"`
}

// TransactionService предоставляет методы для работы с транзакциями.
// Все операции, затрагивающие баланс, выполняются в одной транзакции
// базы данных вместе с изменением баланса через LedgerService.
type TransactionService struct {
	db        *gorm.DB
	validator *validator.Validate
	ledger    *LedgerService
	email     *EmailService
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *gorm.DB, email *EmailService) *TransactionService {
	return &TransactionService{
		db:        db,
		validator: validator.New(),
		ledger:    NewLedgerService(),
		email:     email,
	}
}

// parseTransactionDate разбирает дату запроса; пустая дата означает текущий момент
func parseTransactionDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date, nil
	}
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, nil
	}
	return time.Time{}, NewValidationError("поле date должно быть в формате RFC3339 или YYYY-MM-DD")
}

// validateReferences проверяет существование всех трех ссылочных сущностей.
// Выполняется внутри транзакции базы данных, поэтому проверка и изменение
// баланса видят один снимок данных.
func (s *TransactionService) validateReferences(tx *gorm.DB, userID, categoryID, accountID uint) (*models.User, *models.Category, *models.Account, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, NewReferenceError("user", userID)
		}
		return nil, nil, nil, NewStorageError("поиск пользователя", err)
	}

	var category models.Category
	if err := tx.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, NewReferenceError("category", categoryID)
		}
		return nil, nil, nil, NewStorageError("поиск категории", err)
	}

	var account models.Account
	if err := tx.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, NewReferenceError("account", accountID)
		}
		return nil, nil, nil, NewStorageError("поиск счета", err)
	}

	return &user, &category, &account, nil
}

// Create создает транзакцию и применяет ее эффект к балансу счета
func (s *TransactionService) Create(request TransactionRequest) (*TransactionDTO, error) {
	start := time.Now()
	dto, err := s.create(request)
	utils.LogOperation("addTransaction", start, err)
	utils.GetMetrics().RecordOperation("addTransaction", err)
	return dto, err
}

func (s *TransactionService) create(request TransactionRequest) (*TransactionDTO, error) {
	// Валидируем запрос
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	// Разбираем дату
	date, err := parseTransactionDate(request.Date)
	if err != nil {
		return nil, err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, NewStorageError("начало транзакции", tx.Error)
	}

	// Проверяем ссылки на пользователя, категорию и счет
	user, category, account, err := s.validateReferences(tx, request.UserID, request.CategoryID, request.AccountID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Применяем эффект к балансу счета
	if err := s.ledger.ApplyEffect(tx, request.AccountID, request.Amount, request.Type); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Создаем запись о транзакции
	record := &models.Transaction{
		Date:        date,
		Description: request.Description,
		Amount:      request.Amount,
		Type:        request.Type,
		UserID:      request.UserID,
		CategoryID:  request.CategoryID,
		AccountID:   request.AccountID,
	}
	if err := tx.Create(record).Error; err != nil {
		tx.Rollback()
		return nil, NewStorageError("сохранение транзакции", err)
	}

	// Перечитываем счет, чтобы вернуть актуальный баланс
	if err := tx.First(account, request.AccountID).Error; err != nil {
		tx.Rollback()
		return nil, NewStorageError("чтение счета", err)
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, NewStorageError("подтверждение транзакции", err)
	}

	s.notify(user, account, record, "Создание транзакции")

	return s.toDTO(record, user, category, account), nil
}

// Update обновляет транзакцию: снимает старый эффект со старого счета
// и применяет новый эффект к новому счету (возможно, тому же самому)
func (s *TransactionService) Update(id uint, request TransactionRequest) (*TransactionDTO, error) {
	start := time.Now()
	dto, err := s.update(id, request)
	utils.LogOperation("updateTransaction", start, err)
	utils.GetMetrics().RecordOperation("updateTransaction", err)
	return dto, err
}

func (s *TransactionService) update(id uint, request TransactionRequest) (*TransactionDTO, error) {
	// Валидируем запрос
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	// Разбираем дату
	date, err := parseTransactionDate(request.Date)
	if err != nil {
		return nil, err
	}

	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, NewStorageError("начало транзакции", tx.Error)
	}

	// Получаем существующую запись
	var existing models.Transaction
	if err := tx.First(&existing, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("transaction", id)
		}
		return nil, NewStorageError("поиск транзакции", err)
	}

	// Проверяем ссылки для новых значений
	user, category, account, err := s.validateReferences(tx, request.UserID, request.CategoryID, request.AccountID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Снимаем старый эффект со старого счета
	if err := s.ledger.RevertEffect(tx, existing.AccountID, existing.Amount, existing.Type); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Применяем новый эффект к новому счету
	if err := s.ledger.ApplyEffect(tx, request.AccountID, request.Amount, request.Type); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Обновляем поля записи
	existing.Date = date
	existing.Description = request.Description
	existing.Amount = request.Amount
	existing.Type = request.Type
	existing.UserID = request.UserID
	existing.CategoryID = request.CategoryID
	existing.AccountID = request.AccountID
	if err := tx.Save(&existing).Error; err != nil {
		tx.Rollback()
		return nil, NewStorageError("обновление транзакции", err)
	}

	// Перечитываем счет, чтобы вернуть актуальный баланс
	if err := tx.First(account, request.AccountID).Error; err != nil {
		tx.Rollback()
		return nil, NewStorageError("чтение счета", err)
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return nil, NewStorageError("подтверждение транзакции", err)
	}

	return s.toDTO(&existing, user, category, account), nil
}

// Delete удаляет транзакцию, предварительно сняв ее эффект с баланса счета.
// Возвращает false без ошибки, если транзакция не найдена.
func (s *TransactionService) Delete(id uint) (bool, error) {
	start := time.Now()
	deleted, err := s.delete(id)
	utils.LogOperation("deleteTransaction", start, err)
	utils.GetMetrics().RecordOperation("deleteTransaction", err)
	return deleted, err
}

func (s *TransactionService) delete(id uint) (bool, error) {
	// Начинаем транзакцию
	tx := s.db.Begin()
	if tx.Error != nil {
		return false, NewStorageError("начало транзакции", tx.Error)
	}

	// Получаем существующую запись вместе с пользователем и счетом
	var existing models.Transaction
	if err := tx.Preload("User").Preload("Account").First(&existing, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewStorageError("поиск транзакции", err)
	}

	// Снимаем эффект с баланса счета
	if err := s.ledger.RevertEffect(tx, existing.AccountID, existing.Amount, existing.Type); err != nil {
		tx.Rollback()
		return false, err
	}

	// Удаляем запись
	if err := tx.Delete(&models.Transaction{}, id).Error; err != nil {
		tx.Rollback()
		return false, NewStorageError("удаление транзакции", err)
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return false, NewStorageError("подтверждение транзакции", err)
	}

	s.notify(&existing.User, &existing.Account, &existing, "Удаление транзакции")

	return true, nil
}

// GetById возвращает транзакцию по ID с подгруженными сущностями
func (s *TransactionService) GetById(id uint) (*TransactionDTO, error) {
	var record models.Transaction
	if err := s.db.Preload("User").Preload("Category").Preload("Account").
		First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("transaction", id)
		}
		return nil, NewStorageError("поиск транзакции", err)
	}
	return s.toDTO(&record, &record.User, &record.Category, &record.Account), nil
}

// GetAll возвращает все транзакции с подгруженными сущностями
func (s *TransactionService) GetAll() ([]TransactionDTO, error) {
	var records []models.Transaction
	if err := s.db.Preload("User").Preload("Category").Preload("Account").
		Order("date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, NewStorageError("получение списка транзакций", err)
	}
	return s.toDTOs(records), nil
}

// GetAllByType возвращает все транзакции указанного типа
func (s *TransactionService) GetAllByType(txType string) ([]TransactionDTO, error) {
	if !models.IsValidTransactionType(txType) {
		return nil, NewInvalidTypeError(txType)
	}

	var records []models.Transaction
	if err := s.db.Preload("User").Preload("Category").Preload("Account").
		Where("type = ?", txType).
		Order("date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, NewStorageError("получение списка транзакций", err)
	}
	return s.toDTOs(records), nil
}

// notify отправляет уведомление пользователю транзакции
func (s *TransactionService) notify(user *models.User, account *models.Account, record *models.Transaction, operation string) {
	if s.email == nil {
		return
	}
	if err := s.email.SendTransactionNotification(user.Email, account.Name, record.Amount, record.Type, operation); err != nil {
		utils.LogError("Ошибка отправки уведомления: %v", err)
	}
}

// toDTO конвертирует запись в обогащенное представление
func (s *TransactionService) toDTO(record *models.Transaction, user *models.User, category *models.Category, account *models.Account) *TransactionDTO {
	return &TransactionDTO{
		ID:          record.ID,
		Date:        record.Date.Format(time.RFC3339),
		Description: record.Description,
		Amount:      record.Amount,
		Type:        record.Type,
		User:        toUserDTO(user),
		Category:    toCategoryDTO(category),
		Account:     toAccountDTO(account),
		CreatedAt:   record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   record.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *TransactionService) toDTOs(records []models.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, 0, len(records))
	for i := range records {
		record := &records[i]
		dtos = append(dtos, *s.toDTO(record, &record.User, &record.Category, &record.Account))
	}
	return dtos
}
