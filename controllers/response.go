package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pettycash/services"
)

// writeJSON отправляет успешный JSON-ответ
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError отображает вид доменной ошибки в HTTP-статус
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var appErr *services.AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case services.ErrorKindNotFound:
			status = http.StatusNotFound
		case services.ErrorKindValidation, services.ErrorKindReference, services.ErrorKindInvalidType:
			status = http.StatusBadRequest
		case services.ErrorKindStorage, services.ErrorKindInconsistent:
			status = http.StatusInternalServerError
		}
	}

	http.Error(w, err.Error(), status)
}
