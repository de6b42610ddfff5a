package controllers

import (
	"encoding/json"
	"net/http"

	"pettycash/database"
	"pettycash/services"

	"github.com/gorilla/mux"
)

// UserController обрабатывает запросы, связанные с пользователями
type UserController struct {
	service *services.UserService
}

// NewUserController создает новый экземпляр UserController
func NewUserController(db *database.Database) *UserController {
	return &UserController{
		service: services.NewUserService(db.DB),
	}
}

// GetUsers обрабатывает запрос на получение списка пользователей
func (c *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.GetAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser обрабатывает запрос на получение пользователя по ID
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := c.service.GetById(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AddUser обрабатывает запрос на создание пользователя
func (c *UserController) AddUser(w http.ResponseWriter, r *http.Request) {
	var request services.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := c.service.Create(request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser обрабатывает запрос на обновление пользователя
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var request services.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := c.service.Update(id, request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser обрабатывает запрос на удаление пользователя
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
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
func (c *UserController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/users", c.GetUsers).Methods("GET")
	router.HandleFunc("/api/users", c.AddUser).Methods("POST")
	router.HandleFunc("/api/users/{id:[0-9]+}", c.GetUser).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}", c.UpdateUser).Methods("PUT")
	router.HandleFunc("/api/users/{id:[0-9]+}", c.DeleteUser).Methods("DELETE")
}
