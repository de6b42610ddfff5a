package controllers

import (
	"encoding/json"
	"net/http"

	"pettycash/database"
	"pettycash/services"

	"github.com/gorilla/mux"
)

// AccountController обрабатывает запросы, связанные с кассовыми счетами
type AccountController struct {
	service *services.AccountService
}

// NewAccountController создает новый экземпляр AccountController
func NewAccountController(db *database.Database) *AccountController {
	return &AccountController{
		service: services.NewAccountService(db.DB),
	}
}

// GetAccounts обрабатывает запрос на получение списка счетов
func (c *AccountController) GetAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := c.service.GetAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// GetAccount обрабатывает запрос на получение счета по ID
func (c *AccountController) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	account, err := c.service.GetById(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// AddAccount обрабатывает запрос на создание счета
func (c *AccountController) AddAccount(w http.ResponseWriter, r *http.Request) {
	var request services.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := c.service.Create(request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// UpdateAccount обрабатывает запрос на обновление счета.
// Принимается только название: баланс ведет LedgerService.
func (c *AccountController) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	var request services.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := c.service.Update(id, request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// DeleteAccount обрабатывает запрос на удаление счета
func (c *AccountController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	deleted, err := c.service.Delete(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// GetTotalBalance обрабатывает запрос на получение суммарного баланса всех счетов
func (c *AccountController) GetTotalBalance(w http.ResponseWriter, r *http.Request) {
	total, err := c.service.GetTotalBalance()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

// RegisterRoutes регистрирует маршруты контроллера
func (c *AccountController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/accounts", c.GetAccounts).Methods("GET")
	router.HandleFunc("/api/accounts", c.AddAccount).Methods("POST")
	router.HandleFunc("/api/accounts/total", c.GetTotalBalance).Methods("GET")
	router.HandleFunc("/api/accounts/{id:[0-9]+}", c.GetAccount).Methods("GET")
	router.HandleFunc("/api/accounts/{id:[0-9]+}", c.UpdateAccount).Methods("PUT")
	router.HandleFunc("/api/accounts/{id:[0-9]+}", c.DeleteAccount).Methods("DELETE")
}
