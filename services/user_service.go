package services

import (
	"errors"
	"time"

	"pettycash/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// UserDTO представляет пользователя
type UserDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// UserRequest представляет данные для создания или обновления пользователя
type UserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	db        *gorm.DB
	validator *validator.Validate
}

// NewUserService создает новый экземпляр UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:        db,
		validator: validator.New(),
	}
}

func toUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

// Create создает нового пользователя
func (s *UserService) Create(request UserRequest) (*UserDTO, error) {
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	// Проверяем, существует ли пользователь с таким email
	var existing models.User
	if err := s.db.Where("LOWER(email) = LOWER(?)", request.Email).First(&existing).Error; err == nil {
		return nil, NewValidationError("пользователь с таким email уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewStorageError("поиск пользователя", err)
	}

	user := &models.User{
		Name:  request.Name,
		Email: request.Email,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, NewStorageError("создание пользователя", err)
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// GetById возвращает пользователя по ID
func (s *UserService) GetById(id uint) (*UserDTO, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user", id)
		}
		return nil, NewStorageError("поиск пользователя", err)
	}
	dto := toUserDTO(&user)
	return &dto, nil
}

// GetAll возвращает всех пользователей
func (s *UserService) GetAll() ([]UserDTO, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, NewStorageError("получение списка пользователей", err)
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	return dtos, nil
}

// Update обновляет пользователя
func (s *UserService) Update(id uint, request UserRequest) (*UserDTO, error) {
	if err := s.validator.Struct(request); err != nil {
		return nil, formatValidationErrors(err)
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user", id)
		}
		return nil, NewStorageError("поиск пользователя", err)
	}

	user.Name = request.Name
	user.Email = request.Email
	user.UpdatedAt = time.Now()
	if err := s.db.Save(&user).Error; err != nil {
		return nil, NewStorageError("обновление пользователя", err)
	}

	dto := toUserDTO(&user)
	return &dto, nil
}

// Delete удаляет пользователя. Возвращает false без ошибки, если пользователь не найден.
// Пользователя, на которого ссылаются транзакции, удалить нельзя.
func (s *UserService) Delete(id uint) (bool, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, NewStorageError("поиск пользователя", err)
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("user_id = ?", id).Count(&count).Error; err != nil {
		return false, NewStorageError("проверка транзакций пользователя", err)
	}
	if count > 0 {
		return false, NewValidationError("нельзя удалить пользователя, на которого ссылаются транзакции")
	}

	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return false, NewStorageError("удаление пользователя", err)
	}
	return true, nil
}
