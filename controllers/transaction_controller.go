package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pettycash/database"
	"pettycash/services"

	"github.com/gorilla/mux"
)

// TransactionController обрабатывает запросы, связанные с транзакциями
type TransactionController struct {
	service *services.TransactionService
}

// NewTransactionController создает новый экземпляр TransactionController
func NewTransactionController(db *database.Database, email *services.EmailService) *TransactionController {
	return &TransactionController{
		service: services.NewTransactionService(db.DB, email),
	}
}

// parseID извлекает ID из параметров маршрута
func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// GetTransactions обрабатывает запрос на получение списка транзакций
func (c *TransactionController) GetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := c.service.GetAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// GetTransaction обрабатывает запрос на получение транзакции по ID
func (c *TransactionController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	transaction, err := c.service.GetById(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

// GetTransactionsByType обрабатывает запрос на получение транзакций по типу
func (c *TransactionController) GetTransactionsByType(w http.ResponseWriter, r *http.Request) {
	txType := mux.Vars(r)["type"]

	transactions, err := c.service.GetAllByType(txType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// AddTransaction обрабатывает запрос на создание транзакции
func (c *TransactionController) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var request services.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	transaction, err := c.service.Create(request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction обрабатывает запрос на обновление транзакции
func (c *TransactionController) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	var request services.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	transaction, err := c.service.Update(id, request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction обрабатывает запрос на удаление транзакции
func (c *TransactionController) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	deleted, err := c.service.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// RegisterRoutes регистрирует маршруты контроллера
func (c *TransactionController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/transactions", c.GetTransactions).Methods("GET")
	router.HandleFunc("/api/transactions", c.AddTransaction).Methods("POST")
	router.HandleFunc("/api/transactions/type/{type}", c.GetTransactionsByType).Methods("GET")
	router.HandleFunc("/api/transactions/{id:[0-9]+}", c.GetTransaction).Methods("GET")
	router.HandleFunc("/api/transactions/{id:[0-9]+}", c.UpdateTransaction).Methods("PUT")
	router.HandleFunc("/api/transactions/{id:[0-9]+}", c.DeleteTransaction).Methods("DELETE")
}
