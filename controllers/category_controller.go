package controllers

import (
	"encoding/json"
	"net/http"

	"pettycash/database"
	"pettycash/services"

	"github.com/gorilla/mux"
)

// CategoryController обрабатывает запросы, связанные с категориями
type CategoryController struct {
	service *services.CategoryService
}

// NewCategoryController создает новый экземпляр CategoryController
func NewCategoryController(db *database.Database) *CategoryController {
	return &CategoryController{
		service: services.NewCategoryService(db.DB),
	}
}

// GetCategories обрабатывает запрос на получение списка категорий
func (c *CategoryController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.GetAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory обрабатывает запрос на получение категории по ID
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	category, err := c.service.GetById(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// AddCategory обрабатывает запрос на создание категории
func (c *CategoryController) AddCategory(w http.ResponseWriter, r *http.Request) {
	var request services.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	category, err := c.service.Create(request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory обрабатывает запрос на обновление категории
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	var request services.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	category, err := c.service.Update(id, request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory обрабатывает запрос на удаление категории
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
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
func (c *CategoryController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories", c.GetCategories).Methods("GET")
	router.HandleFunc("/api/categories", c.AddCategory).Methods("POST")
	router.HandleFunc("/api/categories/{id:[0-9]+}", c.GetCategory).Methods("GET")
	router.HandleFunc("/api/categories/{id:[0-9]+}", c.UpdateCategory).Methods("PUT")
	router.HandleFunc("/api/categories/{id:[0-9]+}", c.DeleteCategory).Methods("DELETE")
}
