package services

import (
	"errors"
	"fmt"
)

// ErrorKind представляет вид ошибки доменного уровня
type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "NOT_FOUND"
	ErrorKindValidation   ErrorKind = "VALIDATION"
	ErrorKindReference    ErrorKind = "REFERENCE"
	ErrorKindStorage      ErrorKind = "STORAGE"
	ErrorKindInconsistent ErrorKind = "INCONSISTENT"
	ErrorKindInvalidType  ErrorKind = "INVALID_TYPE"
)

// AppError представляет ошибку операции с указанием вида и сущности
type AppError struct {
	Kind    ErrorKind
	Entity  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Русские названия сущностей для сообщений об ошибках
var entityNames = map[string]string{
	"user":        "пользователь",
	"category":    "категория",
	"account":     "счет",
	"transaction": "транзакция",
}

func entityName(entity string) string {
	if name, ok := entityNames[entity]; ok {
		return name
	}
	return entity
}

// NewNotFoundError создает ошибку отсутствия записи
func NewNotFoundError(entity string, id uint) *AppError {
	return &AppError{
		Kind:    ErrorKindNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%s с ID %d не найден(а)", entityName(entity), id),
	}
}

// NewValidationError создает ошибку валидации входных данных
func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:    ErrorKindValidation,
		Message: message,
	}
}

// NewReferenceError создает ошибку висячей ссылки на несуществующую сущность
func NewReferenceError(entity string, id uint) *AppError {
	return &AppError{
		Kind:    ErrorKindReference,
		Entity:  entity,
		Message: fmt.Sprintf("ссылка на несуществующую сущность: %s с ID %d", entityName(entity), id),
	}
}

// NewStorageError создает ошибку хранилища
func NewStorageError(operation string, err error) *AppError {
	return &AppError{
		Kind:    ErrorKindStorage,
		Message: fmt.Sprintf("ошибка хранилища: %s", operation),
		Err:     err,
	}
}

// NewInconsistentError создает ошибку расхождения баланса счета с суммой транзакций
func NewInconsistentError(accountID uint, stored, computed int64) *AppError {
	return &AppError{
		Kind:   ErrorKindInconsistent,
		Entity: "account",
		Message: fmt.Sprintf("баланс счета %d не соответствует сумме транзакций: хранится %d, вычислено %d",
			accountID, stored, computed),
	}
}

// NewInvalidTypeError создает ошибку неподдерживаемого типа транзакции
func NewInvalidTypeError(txType string) *AppError {
	return &AppError{
		Kind:    ErrorKindInvalidType,
		Entity:  "transaction",
		Message: fmt.Sprintf("неподдерживаемый тип транзакции: %q", txType),
	}
}

// IsKind проверяет, относится ли ошибка к указанному виду
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
