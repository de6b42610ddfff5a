package services

import (
	"testing"

	"pettycash/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB создает базу данных SQLite в памяти для тестов
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get connection pool: %v", err)
	}
	// База в памяти живет в рамках одного соединения
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Account{}, &models.Transaction{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// createTestRefs создает пользователя, категорию и счет для тестов
func createTestRefs(t *testing.T, db *gorm.DB) (*models.User, *models.Category, *models.Account) {
	t.Helper()

	user := &models.User{Name: "Иван Петров", Email: "ivan@example.com"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	category := &models.Category{Name: "Канцтовары"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	account := &models.Account{Name: "Основная касса"}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	return user, category, account
}

// accountBalance возвращает текущий баланс счета
func accountBalance(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()

	var account models.Account
	if err := db.First(&account, id).Error; err != nil {
		t.Fatalf("failed to load account %d: %v", id, err)
	}
	return account.Balance
}
