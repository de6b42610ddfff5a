package services

import (
	"errors"
	"time"

	"pettycash/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CategoryDTO представляет категорию
type CategoryDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CategoryRequest представляет данные для создания или обновления категории
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CategoryService предоставляет методы для работы с категориями
type CategoryService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		db:        db,
		validator: validator.New(),
	}
}

func toCategoryDTO(category *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}

// Create создает новую категорию
func (s *CategoryService) Create(request CategoryRequest) (*CategoryDTO, error) {
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	category := &models.Category{
		Name: request.Name,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, NewStorageError("создание категории", err)
	}

	dto := toCategoryDTO(category)
	return &dto, nil
}

// GetById возвращает категорию по ID
func (s *CategoryService) GetById(id uint) (*CategoryDTO, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("category", id)
		}
		return nil, NewStorageError("поиск категории", err)
	}
	dto := toCategoryDTO(&category)
	return &dto, nil
}

// GetAll возвращает все категории
func (s *CategoryService) GetAll() ([]CategoryDTO, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, NewStorageError("получение списка категорий", err)
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, toCategoryDTO(&categories[i]))
	}
	return dtos, nil
}

// Update обновляет категорию
func (s *CategoryService) Update(id uint, request CategoryRequest) (*CategoryDTO, error) {
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("category", id)
		}
		return nil, NewStorageError("поиск категории", err)
	}

	category.Name = request.Name
	category.UpdatedAt = time.Now()
	if err := s.db.Save(&category).Error; err != nil {
		return nil, NewStorageError("обновление категории", err)
	}

	dto := toCategoryDTO(&category)
	return &dto, nil
}

// Delete удаляет категорию. Возвращает false без ошибки, если категория не найдена.
// Категорию, на которую ссылаются транзакции, удалить нельзя.
func (s *CategoryService) Delete(id uint) (bool, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewStorageError("поиск категории", err)
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return false, NewStorageError("проверка транзакций категории", err)
	}
	if count > 0 {
		return false, NewValidationError("нельзя удалить категорию, на которую ссылаются транзакции")
	}

	if err := s.db.Delete(&models.Category{}, id).Error; err != nil {
		return false, NewStorageError("удаление категории", err)
	}
	return true, nil
}
