package services

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"pettycash/models"
)

func TestCreateTransaction(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	dto, err := svc.Create(TransactionRequest{
		Description: "Продажа товара",
		Amount:      100,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.ID == 0 {
		t.Error("expected non-zero transaction ID")
	}
	if dto.Amount != 100 {
		t.Errorf("amount: got %v want %v", dto.Amount, 100)
	}
	if dto.User.ID != user.ID || dto.Category.ID != category.ID || dto.Account.ID != account.ID {
		t.Error("expected enriched references in DTO")
	}
	if dto.Account.Balance != 100 {
		t.Errorf("account balance in DTO: got %v want %v", dto.Account.Balance, 100)
	}
	if got := accountBalance(t, db, account.ID); got != 100 {
		t.Errorf("stored balance: got %v want %v", got, 100)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	tests := []struct {
		name    string
		request TransactionRequest
	}{
		{
			name: "zero amount",
			request: TransactionRequest{
				Description: "тест", Amount: 0, Type: "income",
				UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
			},
		},
		{
			name: "negative amount",
			request: TransactionRequest{
				Description: "тест", Amount: -5, Type: "income",
				UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
			},
		},
		{
			name: "bad type",
			request: TransactionRequest{
				Description: "тест", Amount: 10, Type: "transfer",
				UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
			},
		},
		{
			name: "missing description",
			request: TransactionRequest{
				Amount: 10, Type: "income",
				UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.request)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !IsKind(err, ErrorKindValidation) {
				t.Errorf("wrong error kind: got %v want %v", err, ErrorKindValidation)
			}
		})
	}

	// Ни одна валидационная ошибка не должна оставить следов
	if got := accountBalance(t, db, account.ID); got != 0 {
		t.Errorf("balance must stay unchanged: got %v want %v", got, 0)
	}
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transaction count: got %v want %v", count, 0)
	}
}

func TestCreateTransactionMissingReference(t *testing.T) {
	db := setupTestDB(t)
	user, _, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	_, err := svc.Create(TransactionRequest{
		Description: "тест",
		Amount:      100,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  9999,
		AccountID:   account.ID,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsKind(err, ErrorKindReference) {
		t.Errorf("wrong error kind: got %v want %v", err, ErrorKindReference)
	}

	// Баланс не изменен, запись не создана
	if got := accountBalance(t, db, account.ID); got != 0 {
		t.Errorf("balance must stay unchanged: got %v want %v", got, 0)
	}
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transaction count: got %v want %v", count, 0)
	}
}

func TestDeleteTransaction(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	dto, err := svc.Create(TransactionRequest{
		Description: "Продажа товара",
		Amount:      100,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := svc.Delete(dto.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}
	if got := accountBalance(t, db, account.ID); got != 0 {
		t.Errorf("balance after delete: got %v want %v", got, 0)
	}
}

func TestDeleteMissingTransaction(t *testing.T) {
	db := setupTestDB(t)
	createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	deleted, err := svc.Delete(9999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Error("expected deleted = false for missing transaction")
	}
}

// Удаление доходит до отправки уведомления с подгруженными пользователем
// и счетом; без настроенного сервиса email отправка молча пропускается
func TestDeleteTransactionNotificationWithoutEmail(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	dto, err := svc.Create(TransactionRequest{
		Description: "Продажа товара",
		Amount:      100,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := svc.Delete(dto.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected deleted = true")
	}

	// Защита от nil работает и при прямом вызове с пустой записью
	svc.notify(user, account, &models.Transaction{Amount: 100, Type: "income"}, "Удаление транзакции")
}

func TestUpdateTransactionSameAccount(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	dto, err := svc.Create(TransactionRequest{
		Description: "Продажа товара",
		Amount:      100,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100 (income) -> 40 (expense): 100 - 100 - 40 = -40
	updated, err := svc.Update(dto.ID, TransactionRequest{
		Description: "Закупка канцтоваров",
		Amount:      40,
		Type:        "expense",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Amount != 40 || updated.Type != "expense" {
		t.Errorf("updated fields: got %v/%v want 40/expense", updated.Amount, updated.Type)
	}
	if got := accountBalance(t, db, account.ID); got != -40 {
		t.Errorf("balance after update: got %v want %v", got, -40)
	}
}

func TestUpdateTransactionCrossAccount(t *testing.T) {
	db := setupTestDB(t)
	user, category, accountA := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	accountB := &models.Account{Name: "Вторая касса"}
	if err := db.Create(accountB).Error; err != nil {
		t.Fatalf("failed to create second account: %v", err)
	}

	dto, err := svc.Create(TransactionRequest{
		Description: "Продажа товара",
		Amount:      50,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   accountA.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := accountBalance(t, db, accountA.ID); got != 50 {
		t.Fatalf("balance A before move: got %v want %v", got, 50)
	}

	// Переносим транзакцию со счета A на счет B
	updated, err := svc.Update(dto.ID, TransactionRequest{
		Description: "Продажа товара",
		Amount:      50,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   accountB.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Account.ID != accountB.ID {
		t.Errorf("account in DTO: got %v want %v", updated.Account.ID, accountB.ID)
	}
	if got := accountBalance(t, db, accountA.ID); got != 0 {
		t.Errorf("balance A after move: got %v want %v", got, 0)
	}
	if got := accountBalance(t, db, accountB.ID); got != 50 {
		t.Errorf("balance B after move: got %v want %v", got, 50)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	_, err := svc.Update(9999, TransactionRequest{
		Description: "тест",
		Amount:      10,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsKind(err, ErrorKindNotFound) {
		t.Errorf("wrong error kind: got %v want %v", err, ErrorKindNotFound)
	}
}

func TestGetByIdIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	dto, err := svc.Create(TransactionRequest{
		Description: "Продажа товара",
		Amount:      100,
		Type:        "income",
		UserID:      user.ID,
		CategoryID:  category.ID,
		AccountID:   account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.GetById(dto.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetById(dto.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads differ: got %v and %v", first, second)
	}
}

func TestGetMissingTransaction(t *testing.T) {
	db := setupTestDB(t)
	createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	_, err := svc.GetById(9999)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsKind(err, ErrorKindNotFound) {
		t.Errorf("wrong error kind: got %v want %v", err, ErrorKindNotFound)
	}
}

func TestGetAllByType(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	for i, txType := range []string{"income", "income", "expense"} {
		_, err := svc.Create(TransactionRequest{
			Description: fmt.Sprintf("операция %d", i+1),
			Amount:      10,
			Type:        txType,
			UserID:      user.ID,
			CategoryID:  category.ID,
			AccountID:   account.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	incomes, err := svc.GetAllByType("income")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incomes) != 2 {
		t.Errorf("income count: got %v want %v", len(incomes), 2)
	}

	expenses, err := svc.GetAllByType("expense")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expenses) != 1 {
		t.Errorf("expense count: got %v want %v", len(expenses), 1)
	}

	if _, err := svc.GetAllByType("transfer"); !IsKind(err, ErrorKindInvalidType) {
		t.Errorf("wrong error kind: got %v want %v", err, ErrorKindInvalidType)
	}
}

func TestBalanceInvariantAfterMixedOperations(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	first, err := svc.Create(TransactionRequest{
		Description: "приход", Amount: 200, Type: "income",
		UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Create(TransactionRequest{
		Description: "расход", Amount: 50, Type: "expense",
		UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Update(first.ID, TransactionRequest{
		Description: "приход", Amount: 120, Type: "income",
		UserID: user.ID, CategoryID: category.ID, AccountID: account.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Delete(second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Инвариант: баланс равен сумме знаковых сумм живых транзакций
	var computed int64
	if err := db.Model(&models.Transaction{}).
		Where("account_id = ?", account.ID).
		Select("COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)").
		Scan(&computed).Error; err != nil {
		t.Fatalf("failed to compute sum: %v", err)
	}

	if got := accountBalance(t, db, account.ID); got != computed {
		t.Errorf("invariant violated: stored %v, computed %v", got, computed)
	}
	if got := accountBalance(t, db, account.ID); got != 120 {
		t.Errorf("balance: got %v want %v", got, 120)
	}
}

func TestConcurrentCreates(t *testing.T) {
	db := setupTestDB(t)
	user, category, account := createTestRefs(t, db)
	svc := NewTransactionService(db, nil)

	const workers = 10
	const amount = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Create(TransactionRequest{
				Description: fmt.Sprintf("параллельная операция %d", n),
				Amount:      amount,
				Type:        "income",
				UserID:      user.ID,
				CategoryID:  category.ID,
				AccountID:   account.ID,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Без потерянных обновлений: итоговый баланс ровно workers*amount
	if got := accountBalance(t, db, account.ID); got != workers*amount {
		t.Errorf("balance after concurrent creates: got %v want %v", got, workers*amount)
	}
}
