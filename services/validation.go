package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// formatValidationErrors преобразует ошибки валидатора в доменную ошибку
// с понятными сообщениями
func formatValidationErrors(err error) *AppError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewValidationError(err.Error())
	}

	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
		case "min":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать минимум "+e.Param()+" символов")
		case "max":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно содержать максимум "+e.Param()+" символов")
		case "gt":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше "+e.Param())
		case "gte":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше или равно "+e.Param())
		case "oneof":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
		case "email":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть корректным email")
		default:
			errorMessages = append(errorMessages, "поле "+e.Field()+" не прошло валидацию")
		}
	}
	return NewValidationError(strings.Join(errorMessages, "; "))
}
