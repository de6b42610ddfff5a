package services

import (
	"testing"
)

func TestCategoryCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	if _, err := svc.Create(CategoryRequest{Name: "Транспорт"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(CategoryRequest{Name: "Аренда"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	categories, err := svc.GetAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("category count: got %v want %v", len(categories), 2)
	}
	// Список отсортирован по имени
	if categories[0].Name != "Аренда" {
		t.Errorf("first category: got %v want %v", categories[0].Name, "Аренда")
	}
}

func TestCategoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	created, err := svc.Create(CategoryRequest{Name: "Транспорт"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(created.ID, CategoryRequest{Name: "Логистика"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Логистика" {
		t.Errorf("name: got %v want %v", updated.Name, "Логистика")
	}
}

func TestCategoryDeleteWithTransactions(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	categorySvc := NewCategoryService(db)
	txSvc := NewTransactionService(db, nil)

	if _, err := txSvc.Create(TransactionRequest{
		Description: "приход", Amount: 10, Type: "income",
		UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := categorySvc.Delete(category.ID)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsKind(err, ErrorKindValidation) {
		t.Errorf("wrong error kind: got %v want %v", err, ErrorKindValidation)
	}
}

func TestCategoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	if _, err := svc.GetById(9999); !IsKind(err, ErrorKindNotFound) {
		t.Errorf("wrong error kind: got %v want %v", err, ErrorKindNotFound)
	}
}
